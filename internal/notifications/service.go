package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"roundel/internal/config"
)

const userAgent = "Roundel-Go/0.1.0"

// Event identifies a pipeline lifecycle moment worth telling a human about.
type Event string

const (
	EventJobStarted   Event = "job_started"
	EventStageStarted Event = "stage_started"
	EventJobCompleted Event = "job_completed"
	EventJobFailed    Event = "job_failed"
	EventTest         Event = "test"
)

// Payload carries event-specific fields used to render the message.
type Payload map[string]string

// Service defines the notification surface exposed to workflow components.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		prefs:    cfg.Notifications,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	prefs    config.Notifications
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if !n.enabled(event) {
		return nil
	}
	msg, ok := render(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) enabled(event Event) bool {
	switch event {
	case EventJobStarted:
		return n.prefs.JobStarted
	case EventStageStarted:
		return n.prefs.StageUpdates
	case EventJobCompleted:
		return n.prefs.Completion
	case EventJobFailed:
		return n.prefs.Errors
	case EventTest:
		return true
	default:
		return false
	}
}

func render(event Event, payload Payload) (message, bool) {
	job := strings.TrimSpace(payload["job"])
	switch event {
	case EventJobStarted:
		return message{
			title: "Roundel - Job Started",
			body:  fmt.Sprintf("Started processing: %s", job),
			tags:  []string{"roundel", "job", "started"},
		}, true
	case EventStageStarted:
		stageName := strings.TrimSpace(payload["stage"])
		if stageName == "" {
			stageName = "unknown"
		}
		return message{
			title: "Roundel - " + titleCase(stageName),
			body:  fmt.Sprintf("%s: %s", titleCase(stageName), job),
			tags:  []string{"roundel", "stage", stageName},
		}, true
	case EventJobCompleted:
		body := fmt.Sprintf("Final image ready: %s", job)
		if locator := strings.TrimSpace(payload["locator"]); locator != "" {
			body = fmt.Sprintf("%s\nArtifact: %s", body, locator)
		}
		return message{
			title:    "Roundel - Complete",
			body:     body,
			tags:     []string{"roundel", "job", "completed"},
			priority: "high",
		}, true
	case EventJobFailed:
		reason := strings.TrimSpace(payload["error"])
		if reason == "" {
			reason = "unknown error"
		}
		return message{
			title:    "Roundel - Failed",
			body:     fmt.Sprintf("Processing failed: %s\n%s", job, reason),
			tags:     []string{"roundel", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Roundel - Test",
			body:     "Notification system test",
			tags:     []string{"roundel", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func titleCase(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
