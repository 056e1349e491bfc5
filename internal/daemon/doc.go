// Package daemon coordinates the background services behind the roundel CLI:
// single-instance locking, preflight verification, startup recovery of
// stranded jobs, and the queue facade the commands talk to.
package daemon
