package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cinefill/internal/config"
)

const userAgent = "cinefill/0.1.0"

// Summary is the outcome of one backfill run.
type Summary struct {
	Kind      string
	RunID     string
	DryRun    bool
	Requested int
	Succeeded int
	Failed    int
	Ignored   int
	Duration  time.Duration
}

// Service defines the notification surface exposed to the CLI.
type Service interface {
	NotifyRunCompleted(ctx context.Context, summary Summary) error
	NotifyRunFailed(ctx context.Context, kind string, err error) error
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

	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, summary Summary) error {
	kind := strings.TrimSpace(summary.Kind)
	if kind == "" {
		kind = "backfill"
	}
	duration := summary.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	title := fmt.Sprintf("Cinefill - %s complete", kind)
	if summary.Failed > 0 {
		title += " (with errors)"
	}
	message := fmt.Sprintf("%d records: %d succeeded, %d failed, %d ignored in %s",
		summary.Requested, summary.Succeeded, summary.Failed, summary.Ignored, duration)
	if summary.DryRun {
		message += "\nDry run, catalog unchanged"
	}
	if summary.RunID != "" {
		message += "\nRun " + summary.RunID
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"cinefill", kind, "completed"},
	}
	if summary.Failed > 0 {
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, kind string, err error) error {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		kind = "backfill"
	}
	var builder strings.Builder
	builder.WriteString("Error during ")
	builder.WriteString(kind)
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Cinefill - Error",
		message:  builder.String(),
		tags:     []string{"cinefill", kind, "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
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

func (noopService) NotifyRunCompleted(context.Context, Summary) error     { return nil }
func (noopService) NotifyRunFailed(context.Context, string, error) error { return nil }
