// Package jobs provides scheduled background tasks for the work-order tracker.
//
// Jobs are cron based (github.com/robfig/cron/v3, seconds field enabled) and
// only read: they never change an order.
//
// # Available Jobs
//
//  1. StalledStagesJob - finds stages that have been InProgress for longer than
//     a threshold, logs each one and publishes the count as a gauge.
//
// # Usage
//
//	stalled := jobs.NewStalledStagesJob(finder, metrics, clock, 24*time.Hour, "", logger)
//	jobManager := jobs.NewJobManager().Add("stalled stages", stalled)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The stalled stage check defaults to "0 * * * * *" (once a minute). A failed
// check is logged and retried on the next tick.
package jobs
