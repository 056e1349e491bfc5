// Package notifications delivers push notifications for pipeline lifecycle
// events over ntfy. When no topic is configured every publish is a no-op, so
// callers never need to gate on configuration themselves.
package notifications
