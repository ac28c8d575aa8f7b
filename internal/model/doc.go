// Package model defines the core data structures shared by the scanner,
// the tagger and the front ends of cleantags.
//
// # Fixes
//
// FieldFix is one proposed replacement for a tag value that matches the
// duplication pattern "S / S":
//
//	fix := model.FieldFix{Field: "artist", Key: "TPE1", Old: "Queen / Queen", New: "Queen"}
//
// # Results
//
// Every file taken off the work queue yields exactly one FileResult. Its
// Status tells whether the file was clean, would have been fixed (dry run),
// was fixed, or failed to decode or persist:
//
//	res := model.FileResult{Path: path, Status: model.StatusFixed, Fixes: fixes}
//
// A Report collects the results of one run, in processing order, and keeps
// per-status counters.
//
// # Progress
//
// ProgressEvent carries human readable progress messages to interactive
// front ends such as the TUI.
package model
