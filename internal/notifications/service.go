package notifications

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"filmdash/internal/config"
	"filmdash/internal/logging"
)

const userAgent = "filmdash/0.1"

// Service defines the notification surface exposed to dashboard components.
type Service interface {
	NotifyEnrichmentUnavailable(ctx context.Context, reason string) error
	NotifyFeedUnavailable(ctx context.Context, username string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, notices are written to the log.
func NewService(cfg *config.Config, logger *slog.Logger) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return NewLogService(logger)
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

// NewNoop returns a service that drops every notice.
func NewNoop() Service {
	return noopService{}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

func enrichmentPayload(reason string) payload {
	var message string
	switch strings.TrimSpace(reason) {
	case "no_api_key":
		message = "Poster lookups are disabled: no TMDB API key is configured. Showing fallback posters."
	case "invalid_api_key":
		message = "TMDB rejected the configured API key. Showing fallback posters."
	default:
		message = "TMDB is unreachable. Showing fallback posters until it recovers."
	}
	return payload{
		title:   "filmdash - Posters Offline",
		message: message,
		tags:    []string{"filmdash", "tmdb", "offline"},
	}
}

func feedPayload(username string, err error) payload {
	message := fmt.Sprintf("Live feed for %s is unavailable", strings.TrimSpace(username))
	if err != nil {
		message += ": " + strings.TrimSpace(err.Error())
	}
	return payload{
		title:    "filmdash - Live Feed Unavailable",
		message:  message,
		tags:     []string{"filmdash", "feed", "error"},
		priority: "high",
	}
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyEnrichmentUnavailable(ctx context.Context, reason string) error {
	return n.send(ctx, enrichmentPayload(reason))
}

func (n *ntfyService) NotifyFeedUnavailable(ctx context.Context, username string, err error) error {
	return n.send(ctx, feedPayload(username, err))
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "filmdash - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"filmdash", "test"},
		priority: "low",
	})
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

// logService reports notices as structured warnings.
type logService struct {
	logger *slog.Logger
}

// NewLogService returns a service that writes notices to logger.
func NewLogService(logger *slog.Logger) Service {
	return &logService{logger: logging.NewComponentLogger(logger, "notifications")}
}

func (l *logService) NotifyEnrichmentUnavailable(ctx context.Context, reason string) error {
	data := enrichmentPayload(reason)
	logging.WarnWithContext(logging.WithContext(ctx, l.logger), data.message,
		"enrichment_unavailable",
		logging.String("reason", reason),
		logging.String(logging.FieldErrorHint, "check tmdb.api_key and network access"),
		logging.String(logging.FieldImpact, "fallback posters shown"),
	)
	return nil
}

func (l *logService) NotifyFeedUnavailable(ctx context.Context, username string, err error) error {
	data := feedPayload(username, err)
	logging.WarnWithContext(logging.WithContext(ctx, l.logger), data.message,
		"feed_unavailable",
		logging.String("username", username),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check feed.relay_url and the Letterboxd username"),
		logging.String(logging.FieldImpact, "live diary entries not merged"),
	)
	return nil
}

func (l *logService) TestNotification(ctx context.Context) error {
	logging.WithContext(ctx, l.logger).Info("notification system test",
		logging.String(logging.FieldEventType, "notification_test"),
	)
	return nil
}

type noopService struct{}

func (noopService) NotifyEnrichmentUnavailable(context.Context, string) error  { return nil }
func (noopService) NotifyFeedUnavailable(context.Context, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error                     { return nil }
