package queue

import "errors"

// ErrSuperseded reports that a persisted transition was rejected because a
// newer run owns the job row. The stale run must abandon its chain without
// publishing any further artifacts.
var ErrSuperseded = errors.New("job run superseded")
