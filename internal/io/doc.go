// Package ioutils provides small file system helpers.
//
// This package contains functions for:
//   - Atomic file writing (temp file + rename)
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//
// # File Operations
//
//	// Write a playlist or config file without leaving partial output
//	err := ioutils.WriteFile(ctx, "/path/to/file.m3u", []byte("content"))
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames:
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
package ioutils
