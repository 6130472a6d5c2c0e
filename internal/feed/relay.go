package feed

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxRelayBody = 8 << 20

// ErrNotXML reports a relay payload that is not an RSS or Atom document.
var ErrNotXML = errors.New("relay payload is not an XML feed")

// RelayStatusError reports a non-2xx relay response.
type RelayStatusError struct {
	Code int
}

func (e *RelayStatusError) Error() string {
	return fmt.Sprintf("relay returned %d", e.Code)
}

// Relay fetches documents through a CORS-style relay that answers
// {"contents": "..."} for GET <relay>?url=<target>.
type Relay struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewRelay returns a relay client.
func NewRelay(baseURL, userAgent string, httpClient *http.Client) *Relay {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Relay{
		baseURL:    strings.TrimSpace(baseURL),
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

// WrapURL builds the relay request URL for target.
func (r *Relay) WrapURL(target string) string {
	sep := "?"
	if strings.Contains(r.baseURL, "?") {
		sep = "&"
	}
	return r.baseURL + sep + "url=" + url.QueryEscape(target)
}

// Fetch retrieves target through the relay and returns the decoded XML
// document.
func (r *Relay) Fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.WrapURL(target), nil)
	if err != nil {
		return nil, fmt.Errorf("build relay request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &RelayStatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRelayBody))
	if err != nil {
		return nil, fmt.Errorf("read relay body: %w", err)
	}
	return DecodeRelayBody(body)
}

// DecodeRelayBody unwraps a relay envelope. A body that is not JSON is taken
// as the document itself. Base64 data URIs are decoded, and the result must
// start with an XML declaration, <rss or <feed.
func DecodeRelayBody(body []byte) ([]byte, error) {
	text := string(body)
	var envelope struct {
		Contents *string `json:"contents"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Contents == nil || strings.TrimSpace(*envelope.Contents) == "" {
			return nil, fmt.Errorf("%w: relay returned no contents", ErrNotXML)
		}
		text = *envelope.Contents
	}

	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "data:") {
		header, payload, ok := strings.Cut(text, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("unsupported data uri %q", truncate(header, 64))
		}
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return nil, fmt.Errorf("decode base64 payload: %w", err)
		}
		text = strings.TrimSpace(string(decoded))
	}

	text = strings.TrimPrefix(text, "\ufeff")
	if !strings.HasPrefix(text, "<?xml") && !strings.HasPrefix(text, "<rss") && !strings.HasPrefix(text, "<feed") {
		return nil, fmt.Errorf("%w: starts with %q", ErrNotXML, truncate(text, 40))
	}
	return []byte(text), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
