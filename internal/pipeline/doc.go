// Package pipeline runs the scan: a traversal goroutine discovers audio
// files and a tagger goroutine repairs them, connected by an unbounded
// queue.
//
// # Basic Usage
//
//	manager := pipeline.NewManager(settings, tags.DefaultRegistry(), logger)
//	manager.OnProgress(func(event model.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	report, err := manager.Run(ctx, "/music")
//	if err != nil {
//	    return err
//	}
//
// # Shutdown
//
// The manager owns the queue's shutdown. It shuts the queue down when
// traversal returns (successfully or not) and when the run's context is
// cancelled. The tagger drains whatever was queued before shutdown and
// then returns.
//
// # Locking
//
// Live runs (settings.DryRun == false) hold an exclusive file lock on
// settings.LockFile for their whole duration. A second live run fails
// with ErrLocked instead of rewriting the same files concurrently. Dry
// runs never lock.
package pipeline
