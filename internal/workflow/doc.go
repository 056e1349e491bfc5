// Package workflow coordinates the transformation chain. A single manager
// polls the queue for actionable jobs and walks each one through cleanup,
// blur, mask, and save, persisting the status transition after every stage.
// Writes are rejected with queue.ErrSuperseded when a newer run has replaced
// the job; the manager abandons the stale chain silently.
package workflow
