package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sgoyal/quotidian/internal/quotes"
)

const (
	defaultEndpoint    = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel       = "gemini-2.0-flash"
	defaultHTTPTimeout = 60 * time.Second
)

// ErrNoContent reports a well-formed API response that carries no candidate
// text. Distinct from transport or status failures so callers can tell a
// malformed answer apart from a network problem.
var ErrNoContent = errors.New("gemini response contains no candidate text")

// Config describes how to build the REST client.
type Config struct {
	Endpoint   string
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

// NewFromEnv builds a Client, falling back to the GEMINI_API_KEY environment
// variable when no key is configured. The key travels in a request header,
// never in the URL.
func NewFromEnv(cfg Config) (Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if key == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	return &restClient{
		endpoint: endpoint,
		model:    model,
		apiKey:   key,
		client:   pickHTTPClient(cfg.HTTPClient),
	}, nil
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

type restClient struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

func (c *restClient) Name() string {
	return fmt.Sprintf("Gemini (%s)", c.model)
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Elaborate sends one mode-specific prompt for the quote. Single POST, no
// retry. The result is always tagged with the requested mode.
func (c *restClient) Elaborate(ctx context.Context, quote quotes.Quote, mode Mode) (Result, error) {
	if !mode.Valid() {
		return Result{}, fmt.Errorf("unknown elaboration mode %q", mode)
	}
	prompt := buildPrompt(quote, mode)

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return Result{}, err
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("gemini API error: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to decode gemini response: %w", err)
	}

	text, ok := candidateText(parsed)
	if !ok {
		return Result{}, ErrNoContent
	}
	return Result{Mode: mode, Content: text}, nil
}

// candidateText walks candidates[0].content.parts[0].text; any missing hop
// means the response is unusable.
func candidateText(resp generateResponse) (string, bool) {
	if len(resp.Candidates) == 0 {
		return "", false
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", false
	}
	text := strings.TrimRight(parts[0].Text, "\n")
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}
