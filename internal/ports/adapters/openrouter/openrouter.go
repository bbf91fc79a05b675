// Package openrouter implements ports.SegmentAnalyzer against the OpenRouter
// chat completions API. Every Analyze call is one model request, so this
// backend suits deliberate batch runs; the embedded lexicon analyzer remains
// the default everywhere else.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"submerge/internal/language"
	"submerge/internal/ports"
)

const (
	defaultModel   = "anthropic/claude-3.5-sonnet"
	requestTimeout = 30 * time.Second

	// Same sentence threshold as the lexicon analyzer, so the two backends
	// agree on CompleteSentence for a given completeness.
	completeThreshold = 0.7
)

// Adapter holds the credentials and HTTP client shared by Analyze calls.
type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = defaultModel
	}
	return &Adapter{
		key:     apiKey,
		model:   model,
		baseURL: normalizeBaseURL(baseURL),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Analyze asks the model to judge one fragment. The response is requested as
// strict JSON; providers that wrap it in prose or fences are salvaged, but a
// response with no parsable verdict fails the call rather than feeding a
// made-up score into candidate selection.
func (a *Adapter) Analyze(text string, lang language.Language) (ports.Analysis, error) {
	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "user", "content": buildPrompt(text, lang)},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name": "fragment_analysis",
				"schema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"tokens":            map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"completeness":      map[string]any{"type": "number"},
						"break_naturalness": map[string]any{"type": "number"},
					},
					"required": []string{"tokens", "completeness", "break_naturalness"},
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return ports.Analysis{}, fmt.Errorf("marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, a.baseURL+"/api/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return ports.Analysis{}, err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return ports.Analysis{}, fmt.Errorf("openrouter timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return ports.Analysis{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return ports.Analysis{}, fmt.Errorf("openrouter status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return ports.Analysis{}, fmt.Errorf("openrouter status %d: %s", resp.StatusCode, truncate(redactSecrets(string(rb), a.key), 400))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return ports.Analysis{}, err
	}
	if len(raw.Choices) == 0 {
		return ports.Analysis{}, errors.New("openrouter: no choices in response")
	}

	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		return ports.Analysis{}, err
	}
	clean, err := extractJSONObject(content)
	if err != nil {
		return ports.Analysis{}, err
	}

	var out struct {
		Tokens           []string `json:"tokens"`
		Completeness     float64  `json:"completeness"`
		BreakNaturalness float64  `json:"break_naturalness"`
	}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return ports.Analysis{}, fmt.Errorf("openrouter: decode analysis: %w", err)
	}

	tokens := out.Tokens
	if len(tokens) == 0 {
		tokens = strings.Fields(text)
	}
	completeness := clamp01(out.Completeness)
	return ports.Analysis{
		Tokens:           tokens,
		Completeness:     completeness,
		CompleteSentence: completeness >= completeThreshold,
		BreakNaturalness: clamp01(out.BreakNaturalness),
	}, nil
}

func buildPrompt(text string, lang language.Language) string {
	return "Judge one " + lang.DisplayName() + " subtitle fragment. " +
		"Return strictly valid JSON (no markdown, no code fences) matching the provided schema. " +
		`"tokens" lists the fragment's words or grammatical segments in order. ` +
		`"completeness" in [0,1] rates whether the fragment ends a grammatically closed sentence. ` +
		`"break_naturalness" in [0,1] rates how acceptable a subtitle cut right after the fragment reads.` +
		"\n\nFragment:\n" + text
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("openrouter: empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("openrouter: unexpected content type %T", v)
	}
}

func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("openrouter: empty content")
	}

	// Strip markdown code fences.
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	// Best-effort: take the first JSON object found.
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}

	return "", fmt.Errorf("openrouter: could not locate JSON object in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

// redactSecrets scrubs the API key and credential-shaped fields from provider
// error bodies before they reach logs or terminal output.
func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
