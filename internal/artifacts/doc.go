// Package artifacts stores binary image artifacts in per-job namespaces on
// the local filesystem, addressed by opaque locators.
package artifacts
