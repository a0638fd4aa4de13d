package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/syahz/apps-be/internal/language"
)

const (
	defaultTranslatorBaseURL = "https://api.openai.com/v1"
	defaultTranslatorModel   = "gpt-4o-mini"
	defaultTranslatorTimeout = 60 * time.Second

	translatorTemperature    = 0.2
	maxTranslatorLogSnippet  = 1024
	maxTranslatorResponseLen = 1 << 20
)

// TranslationResult is the translated title/content pair for one language.
type TranslationResult struct {
	Title   string
	Content string
}

// Translator produces a target-language rendering of a publication. The
// implementation must preserve markup in content and translate only visible
// text.
type Translator interface {
	Translate(ctx context.Context, title, content string, target language.Code) (TranslationResult, error)
}

// httpDoer abstracts the HTTP client so tests can stub provider responses.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AITranslator calls an OpenAI-compatible chat-completions endpoint and
// parses the strict {title, content} JSON contract out of the reply.
type AITranslator struct {
	http    httpDoer
	apiKey  string
	baseURL string
	model   string
}

// NewAITranslator constructs a translator against the given provider
// credentials. Empty baseURL/model fall back to the OpenAI defaults.
func NewAITranslator(apiKey, baseURL, model string, timeout time.Duration) *AITranslator {
	if timeout <= 0 {
		timeout = defaultTranslatorTimeout
	}

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = defaultTranslatorBaseURL
	}

	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = defaultTranslatorModel
	}

	return &AITranslator{
		http:    &http.Client{Timeout: timeout},
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: base,
		model:   trimmedModel,
	}
}

// SetHTTPClient overrides the HTTP client, mainly for tests.
func (t *AITranslator) SetHTTPClient(client httpDoer) {
	if client == nil {
		t.http = &http.Client{Timeout: defaultTranslatorTimeout}
		return
	}
	t.http = client
}

// Translate renders title and content into the target language. It fails
// before any network call when no API key is configured, and treats every
// response that does not yield both fields as a hard TranslationError.
func (t *AITranslator) Translate(ctx context.Context, title, content string, target language.Code) (TranslationResult, error) {
	if t.apiKey == "" {
		log.Printf("[TRANSLATOR] api key missing, refusing to call provider")
		return TranslationResult{}, &TranslationError{Language: target, Err: ErrTranslatorKeyMissing}
	}

	userPrompt := buildTranslationPrompt(title, content, target)
	logTranslatorExchange(target, "prompt", userPrompt)

	payload := chatCompletionRequest{
		Model: t.model,
		Messages: []chatMessage{
			{Role: "system", Content: translationSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    translatorTemperature,
		ResponseFormat: &chatResponseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return TranslationResult{}, &TranslationError{Language: target, Detail: "encode request", Err: err}
	}

	endpoint := t.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return TranslationResult{}, &TranslationError{Language: target, Detail: "build request", Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := t.http.Do(httpReq)
	if err != nil {
		return TranslationResult{}, &TranslationError{Language: target, Detail: "provider unreachable", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxTranslatorResponseLen))
	if err != nil {
		return TranslationResult{}, &TranslationError{Language: target, Detail: "read response", Err: err}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return TranslationResult{}, &TranslationError{Language: target, Detail: "decode response", Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		detail := strings.TrimSpace(completion.Error.Message)
		if detail == "" {
			detail = resp.Status
		}
		return TranslationResult{}, &TranslationError{Language: target, Detail: detail}
	}

	if len(completion.Choices) == 0 {
		return TranslationResult{}, &TranslationError{Language: target, Detail: "provider returned no choices"}
	}

	raw := strings.TrimSpace(completion.Choices[0].Message.Content)
	logTranslatorExchange(target, "response", raw)

	result, err := parseTranslationJSON(raw)
	if err != nil {
		return TranslationResult{}, &TranslationError{Language: target, Detail: "malformed translation payload", Err: err}
	}

	return result, nil
}

const translationSystemPrompt = "You are a professional translator and editor for a news portal. " +
	"Translate Indonesian articles with a professional, neutral newsroom tone. " +
	"Preserve all HTML tags (<p>, <b>, etc.) and structure exactly; translate only the visible text inside tags. " +
	"Do not add commentary. " +
	"Respond with valid JSON matching exactly {\"title\": string, \"content\": string}."

func buildTranslationPrompt(title, content string, target language.Code) string {
	var builder strings.Builder
	builder.WriteString("Translate the following article to ")
	builder.WriteString(language.DisplayName(target))
	builder.WriteString(".\n\nTitle: ")
	builder.WriteString(title)
	builder.WriteString("\nContent: ")
	builder.WriteString(content)
	return builder.String()
}

// parseTranslationJSON parses the provider reply into the required shape.
// Replies sometimes arrive wrapped in a fenced code block; the wrapper is
// stripped before retrying, and anything still missing a field is rejected.
func parseTranslationJSON(raw string) (TranslationResult, error) {
	if strings.TrimSpace(raw) == "" {
		return TranslationResult{}, fmt.Errorf("empty provider reply")
	}

	var parsed struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}

	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		cleaned := stripCodeFence(raw)
		if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
			return TranslationResult{}, fmt.Errorf("reply is not valid JSON: %w", err)
		}
	}

	if strings.TrimSpace(parsed.Title) == "" || strings.TrimSpace(parsed.Content) == "" {
		return TranslationResult{}, fmt.Errorf("reply is missing title or content")
	}

	return TranslationResult{Title: parsed.Title, Content: parsed.Content}, nil
}

func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// logTranslatorExchange logs a rune-truncated snippet of each provider
// exchange for debugging model behavior.
func logTranslatorExchange(target language.Code, phase, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		log.Printf("[TRANSLATOR %s] %s: <empty>", target, phase)
		return
	}

	runeCount := utf8.RuneCountInString(trimmed)
	snippet := trimmed
	if runeCount > maxTranslatorLogSnippet {
		snippet = string([]rune(trimmed)[:maxTranslatorLogSnippet]) + "…(truncated)"
	}
	log.Printf("[TRANSLATOR %s] %s (runes=%d): %s", target, phase, runeCount, snippet)
}
