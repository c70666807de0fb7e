package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/particle-portfolio/internal/config"
	"github.com/iburimskiy/particle-portfolio/internal/i18n"
)

// NoOutput replaces an empty completion.
const NoOutput = "(no output)"

// Stop sequences keep the model from writing the next turn itself.
var stopSequences = []string{"User:", "Assistant:"}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// ErrEmptyMessage is returned when the user text is blank.
var ErrEmptyMessage = errors.New("empty message")

type Options struct {
	Endpoint     string
	Key          string // sent as X-LLM-Key when set
	Model        string
	HistoryLimit int
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
}

// OptionsFrom converts the chat section of the config file.
func OptionsFrom(cfg *config.Config) Options {
	c := cfg.Chat
	return Options{
		Endpoint:     c.Endpoint,
		Key:          c.Key,
		Model:        c.Model,
		HistoryLimit: c.HistoryLimit,
		MaxTokens:    c.MaxTokens,
		Temperature:  c.Temperature,
		Timeout:      cfg.RelayTimeoutDuration(),
	}
}

func (o Options) withDefaults() Options {
	if o.Endpoint == "" {
		o.Endpoint = config.DefaultEndpoint
	}
	if o.Model == "" {
		o.Model = config.DefaultModelName
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = config.HistoryLimit
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = config.MaxTokens
	}
	if o.Timeout <= 0 {
		o.Timeout = config.RelayTimeout
	}
	return o
}

// Relay posts prompts to an OpenAI-style /v1/completions endpoint.
type Relay struct {
	opts   Options
	client *http.Client
	table  *i18n.Table
	logger *zap.Logger
}

// NewRelay builds a relay. table supplies the per-locale language line;
// nil uses the embedded translations.
func NewRelay(opts Options, table *i18n.Table, logger *zap.Logger) *Relay {
	opts = opts.withDefaults()
	if table == nil {
		table = i18n.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		table:  table,
		logger: logger,
	}
}

func (r *Relay) HistoryLimit() int { return r.opts.HistoryLimit }

type completionRequest struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	Temperature float64  `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// Complete sends prompt and returns the trimmed completion text, or
// NoOutput when the endpoint returned nothing.
func (r *Relay) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       r.opts.Model,
		Prompt:      prompt,
		Temperature: r.opts.Temperature,
		MaxTokens:   r.opts.MaxTokens,
		Stop:        stopSequences,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.opts.Key != "" {
		req.Header.Set("X-LLM-Key", r.opts.Key)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return "", &StatusError{Code: resp.StatusCode, Body: string(b)}
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return NoOutput, nil
	}
	answer := strings.TrimSpace(out.Choices[0].Text)
	if answer == "" {
		return NoOutput, nil
	}
	return answer, nil
}

// Reply produces the assistant turn that follows userText. Failures are
// reported inside the turn; there is no retry.
func (r *Relay) Reply(ctx context.Context, locale string, history []Message, userText string) Message {
	system := Preamble(r.table.Lookup(locale, "chat.system"))
	prompt := BuildPrompt(system, Recent(history, r.opts.HistoryLimit), userText)

	start := time.Now()
	answer, err := r.Complete(ctx, prompt)
	if err != nil {
		r.logger.Warn("completion failed", zap.String("locale", locale), zap.Error(err))
		return NewMessage(RoleAssistant, "❌ Error: "+err.Error())
	}
	r.logger.Debug("completion",
		zap.String("locale", locale),
		zap.Int("prompt_bytes", len(prompt)),
		zap.Duration("took", time.Since(start)))
	return NewMessage(RoleAssistant, answer)
}
