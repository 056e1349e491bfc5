// Package imaging implements the raster operations used by the pipeline
// stages: Gaussian blur, centered circular masking, and the PNG codec.
// Functions are pure: they never mutate their input buffers.
package imaging
