// Command cleantags repairs audio file tags whose values were stored twice,
// joined by " / " (for example "Queen / Queen").
//
// Usage:
//
//	cleantags [PATH]              # dry run over PATH (default ".")
//	cleantags --apply ~/Music     # write the fixes
//	cleantags inspect FILE...     # show canonical tags and pending fixes
//	cleantags config init         # write the default configuration
//	cleantags config show         # print the effective configuration
//
// Every run is a dry run unless --apply or --dry-run=false is given, or
// the configuration sets dry_run = false.
package main
