package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"autofix/internal/config"
)

const userAgent = "autofix/1.0"

// Event names a build milestone.
type Event string

const (
	EventBuildCompleted Event = "build_completed"
	EventBuildFailed    Event = "build_failed"
	EventTest           Event = "test"
)

// Payload carries event fields. Known keys: pages, makes, problems,
// shortened (int), duration (time.Duration), error (error or string),
// output (string).
type Payload map[string]any

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
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
		enabled: map[Event]bool{
			EventBuildCompleted: cfg.Notifications.BuildCompleted,
			EventBuildFailed:    cfg.Notifications.Errors,
			EventTest:           true,
		},
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
	enabled  map[Event]bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if !n.enabled[event] {
		return nil
	}
	msg, ok := format(event, payload)
	if !ok {
		return fmt.Errorf("unknown notification event %q", event)
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	switch event {
	case EventBuildCompleted:
		body := fmt.Sprintf("Built %d pages (%d makes, %d problems) in %s",
			payload.intValue("pages"), payload.intValue("makes"), payload.intValue("problems"), formatDuration(payload.durationValue("duration")))
		if shortened := payload.intValue("shortened"); shortened > 0 {
			body = fmt.Sprintf("%s\n%d links shortened", body, shortened)
		}
		if output := payload.stringValue("output"); output != "" {
			body = fmt.Sprintf("%s\nOutput: %s", body, output)
		}
		return message{
			title: "Autofix - Build Complete",
			body:  body,
			tags:  []string{"autofix", "build", "completed"},
		}, true
	case EventBuildFailed:
		reason := payload.stringValue("error")
		if reason == "" {
			reason = "unknown"
		}
		return message{
			title:    "Autofix - Build Failed",
			body:     "Build failed: " + reason,
			tags:     []string{"autofix", "build", "error"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Autofix - Test",
			body:     "Notification system test",
			tags:     []string{"autofix", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}
	return d.String()
}

func (p Payload) intValue(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func (p Payload) durationValue(key string) time.Duration {
	d, _ := p[key].(time.Duration)
	return d
}

func (p Payload) stringValue(key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case error:
		if v == nil {
			return ""
		}
		return strings.TrimSpace(v.Error())
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
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

// Enabled reports whether svc delivers anywhere.
func Enabled(svc Service) bool {
	_, noop := svc.(noopService)
	return svc != nil && !noop
}
