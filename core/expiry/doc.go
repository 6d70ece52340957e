// Package expiry provides a one-shot delayed task scheduler with bounded
// parallelism.
//
// Each [Pool.Schedule] call arms a runtime timer and returns immediately.
// When the delay elapses the task is queued to a fixed set of worker
// goroutines, so at most Options.Workers tasks run at the same time no
// matter how many timers are pending. Tasks run at most once, in no
// particular order across timers.
//
// A task that panics is recovered and logged; the worker keeps serving
// other tasks.
//
//	pool := expiry.New(expiry.Options{Workers: 4})
//	defer pool.Close()
//
//	pool.Schedule(10*time.Second, func() {
//	    // runs on a pool worker
//	})
//
// [Default] returns a process-wide pool shared by all caches that do not
// bring their own.
package expiry
