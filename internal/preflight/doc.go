// Package preflight verifies the environment before the daemon accepts work:
// directory access and free space on the artifact medium.
package preflight
