// Package queue provides the work queue that connects the directory
// scanner to the tagger.
//
// Queue is an unbounded FIFO safe for concurrent producers and consumers.
// Put never blocks. Get blocks while the queue is empty, and returns a
// terminal result once the queue has been shut down and drained:
//
//	q := queue.New[string]()
//
//	go func() {
//	    defer q.Shutdown()
//	    for _, p := range paths {
//	        _ = q.Put(p)
//	    }
//	}()
//
//	for {
//	    p, ok := q.Get()
//	    if !ok {
//	        break // shut down and empty
//	    }
//	    process(p)
//	}
//
// Items already queued when Shutdown is called are still handed out by
// Get, in order. Put after Shutdown is refused with ErrShutdown.
package queue
