// Package queue provides a storage-backed job queue with at-least-once
// delivery and first-class support for delayed execution.
//
// Two components interact only through small repository interfaces:
//
//   - Enqueuer — adds jobs, immediately or with WithDelay/WithScheduledAt
//   - Worker   — claims ready jobs and dispatches them to typed handlers
//
// Keeping persistence behind EnqueuerRepository and WorkerRepository means
// the queue can be backed by PostgreSQL in production (PGStorage, using
// FOR UPDATE SKIP LOCKED) and by MemoryStorage in tests without touching
// the processing logic.
//
// Delivery semantics are at-least-once: a claimed job holds a lock for the
// worker's lock timeout, and a worker that dies mid-job leaves an expired
// lock behind, making the job claimable again. Handlers must tolerate
// duplicate delivery of the same payload.
//
// Handler registration is type-driven: enqueue a payload value and register
// a handler for the same type, and the job name derived from the type links
// the two.
//
//	type deliverJob struct{ DeliveryID uuid.UUID }
//
//	enq, _ := queue.NewEnqueuer(storage, queue.WithDefaultQueue("deliveries"))
//	_ = enq.Enqueue(ctx, deliverJob{DeliveryID: id}, queue.WithDelay(30*time.Second))
//
//	w, _ := queue.NewWorker(storage, queue.WithQueues("deliveries"))
//	w.RegisterHandlers(queue.NewJobHandler(func(ctx context.Context, p deliverJob) error {
//	    return deliver(ctx, p.DeliveryID)
//	}))
//	_ = w.Start(ctx)
package queue
