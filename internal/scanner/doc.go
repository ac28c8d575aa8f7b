// Package scanner walks a directory tree looking for audio files whose
// metadata might need fixing.
//
// The Scanner is the producer side of the scan pipeline: every matching
// file is put onto a work queue as an absolute path, in the order the
// file system reports it.
//
//	q := queue.New[string]()
//	sc := scanner.New(q, scanner.DefaultExtensions(), logger)
//
//	err := sc.Visit(ctx, "/music")
//	q.Shutdown() // the caller owns the shutdown transition
//
// Files match when their name ends, case-insensitively, in ".<ext>" for
// one of the configured extensions. Unreadable subdirectories are logged
// and skipped; an unreadable root is an error.
package scanner
