// Package config provides configuration management for cleantags.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Validation
//   - Conversion to audio.TagConfig for the tagger
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Dry run over mp3, ogg, opus, m4a and m4b files
//	// Checks artist/TPE1, album/TALB and title/TIT2
//
// # Loading from File
//
//	settings, err := config.Load("~/.config/cleantags/config.toml")
//	// A missing file yields the defaults
//
// # File Format
//
//	dry_run = false
//	extensions = ["mp3", "ogg"]
//	canonicalize_ordinals = true
//	lock_file = "~/.config/cleantags/cleantags.lock"
//
//	[[fields]]
//	name = "artist"
//	frame = "TPE1"
//
//	[logging]
//	level = "debug"
//	format = "json"
//
//	[playlist]
//	format = "pls"
package config
