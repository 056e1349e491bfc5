// Package stages implements the pipeline stage handlers: cleanup, blur,
// mask, and save. Each handler consumes the job's current artifact and
// publishes the next one; the workflow manager owns status transitions and
// persistence between stages.
package stages
