package queue

import (
	"strings"
	"time"

	"roundel/internal/artifacts"
)

// Status represents the lifecycle of a pipeline job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCleaning  Status = "cleaning"
	StatusCleaned   Status = "cleaned"
	StatusBlurring  Status = "blurring"
	StatusBlurred   Status = "blurred"
	StatusMasking   Status = "masking"
	StatusMasked    Status = "masked"
	StatusSaving    Status = "saving"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusCleaning,
	StatusCleaned,
	StatusBlurring,
	StatusBlurred,
	StatusMasking,
	StatusMasked,
	StatusSaving,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusCleaning: {},
	StatusBlurring: {},
	StatusMasking:  {},
	StatusSaving:   {},
}

// Job represents a pipeline job persisted in SQLite. Name is unique: a new
// run for an existing name replaces the previous row under a fresh RunToken.
type Job struct {
	ID              int64
	Name            string
	RunToken        string
	SourceLocator   artifacts.Locator
	CurrentLocator  artifacts.Locator
	FinalLocator    artifacts.Locator
	BlurRadius      int
	Status          Status
	ErrorMessage    string
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight stage.
func (j Job) IsProcessing() bool {
	return IsProcessingStatus(j.Status)
}

// IsProcessingStatus reports whether a status reflects an in-flight stage.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsTerminal reports whether the status ends a run.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// SetProgress updates all three progress fields together.
func (j *Job) SetProgress(stage, message string, percent float64) {
	j.ProgressStage = stage
	j.ProgressMessage = message
	j.ProgressPercent = percent
}

// SetFailed marks the job as failed with the given error message.
func (j *Job) SetFailed(message string) {
	j.Status = StatusFailed
	j.ErrorMessage = message
	j.ProgressStage = "Failed"
	j.ProgressMessage = message
	j.ProgressPercent = 0
}

// StageLabel renders a status as a human-readable progress label.
func StageLabel(status Status) string {
	if status == "" {
		return ""
	}
	label := strings.ReplaceAll(string(status), "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}
