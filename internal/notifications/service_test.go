package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"roundel/internal/notifications"
	"roundel/internal/testsupport"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCaptureServer(t *testing.T) (*httptest.Server, func() []captured) {
	t.Helper()

	var mu sync.Mutex
	var requests []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	return server, func() []captured {
		mu.Lock()
		defer mu.Unlock()
		cp := make([]captured, len(requests))
		copy(cp, requests)
		return cp
	}
}

func TestPublishSendsNtfyRequest(t *testing.T) {
	server, requests := newCaptureServer(t)

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := notifications.NewService(cfg)

	err := svc.Publish(context.Background(), notifications.EventJobCompleted, notifications.Payload{
		"job":     "avatar",
		"locator": "roundel://avatar/final-x.png",
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	got := requests()
	if len(got) != 1 {
		t.Fatalf("expected 1 request, got %d", len(got))
	}
	if got[0].title != "Roundel - Complete" {
		t.Fatalf("unexpected title %q", got[0].title)
	}
	if got[0].priority != "high" {
		t.Fatalf("unexpected priority %q", got[0].priority)
	}
	if !strings.Contains(got[0].body, "avatar") || !strings.Contains(got[0].body, "final-x.png") {
		t.Fatalf("unexpected body %q", got[0].body)
	}
}

func TestPublishHonorsEventPreferences(t *testing.T) {
	server, requests := newCaptureServer(t)

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	cfg.Notifications.StageUpdates = false
	svc := notifications.NewService(cfg)

	err := svc.Publish(context.Background(), notifications.EventStageStarted, notifications.Payload{
		"job":   "avatar",
		"stage": "blurring",
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if got := requests(); len(got) != 0 {
		t.Fatalf("expected suppressed event, got %d requests", len(got))
	}
}

func TestPublishReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := notifications.NewService(cfg)

	err := svc.Publish(context.Background(), notifications.EventTest, nil)
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected ntfy error, got %v", err)
	}
}

func TestNewServiceWithoutTopicIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := notifications.NewService(cfg)

	if err := svc.Publish(context.Background(), notifications.EventJobFailed, notifications.Payload{"job": "x"}); err != nil {
		t.Fatalf("noop Publish failed: %v", err)
	}
}

func TestFailureEventCarriesReason(t *testing.T) {
	server, requests := newCaptureServer(t)

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := notifications.NewService(cfg)

	err := svc.Publish(context.Background(), notifications.EventJobFailed, notifications.Payload{
		"job":   "avatar",
		"error": "decode error: not a png",
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	got := requests()
	if len(got) != 1 {
		t.Fatalf("expected 1 request, got %d", len(got))
	}
	if !strings.Contains(got[0].body, "decode error") {
		t.Fatalf("expected failure reason in body, got %q", got[0].body)
	}
	if got[0].tags != "roundel,error,alert" {
		t.Fatalf("unexpected tags %q", got[0].tags)
	}
}
