package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/syahz/apps-be/internal/language"
)

type fakeHTTPClient struct {
	handler func(*http.Request) (*http.Response, error)
}

func (f fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if f.handler == nil {
		return nil, errors.New("no handler configured")
	}
	return f.handler(req)
}

func chatReply(t *testing.T, status int, content string) *http.Response {
	t.Helper()
	response := chatCompletionResponse{}
	response.Choices = append(response.Choices, struct {
		Message chatMessage `json:"message"`
	}{Message: chatMessage{Role: "assistant", Content: content}})

	body, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("marshal fake reply: %v", err)
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func TestAITranslatorTranslate(t *testing.T) {
	translator := NewAITranslator("sk-test", "https://provider.test/v1", "test-model", 0)
	translator.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected authorization header %s", got)
		}

		var payload chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if payload.Model != "test-model" {
			t.Fatalf("unexpected model %s", payload.Model)
		}
		if payload.ResponseFormat == nil || payload.ResponseFormat.Type != "json_object" {
			t.Fatalf("expected json_object response format, got %#v", payload.ResponseFormat)
		}
		if len(payload.Messages) != 2 {
			t.Fatalf("expected system + user messages, got %d", len(payload.Messages))
		}
		if !strings.Contains(payload.Messages[1].Content, "English") {
			t.Fatalf("prompt should name the target language: %s", payload.Messages[1].Content)
		}

		return chatReply(t, http.StatusOK, `{"title":"New Building Inaugurated","content":"<p>The new building opened.</p>"}`), nil
	}})

	result, err := translator.Translate(context.Background(), "Peresmian Gedung Baru", "<p>Gedung baru dibuka.</p>", language.English)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if result.Title != "New Building Inaugurated" {
		t.Fatalf("unexpected title %q", result.Title)
	}
	if result.Content != "<p>The new building opened.</p>" {
		t.Fatalf("unexpected content %q", result.Content)
	}
}

func TestAITranslatorStripsCodeFence(t *testing.T) {
	translator := NewAITranslator("sk-test", "", "", 0)
	translator.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		fenced := "```json\n{\"title\":\"新大楼落成\",\"content\":\"<p>新大楼已启用。</p>\"}\n```"
		return chatReply(t, http.StatusOK, fenced), nil
	}})

	result, err := translator.Translate(context.Background(), "Peresmian Gedung Baru", "<p>Gedung baru dibuka.</p>", language.Chinese)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if result.Title != "新大楼落成" {
		t.Fatalf("unexpected title %q", result.Title)
	}
}

func TestAITranslatorRequiresAPIKey(t *testing.T) {
	translator := NewAITranslator("", "", "", 0)
	translator.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		t.Fatalf("provider must not be called without an api key")
		return nil, nil
	}})

	_, err := translator.Translate(context.Background(), "Judul", "<p>Isi</p>", language.English)
	if !errors.Is(err, ErrTranslatorKeyMissing) {
		t.Fatalf("expected ErrTranslatorKeyMissing, got %v", err)
	}
	if !errors.Is(err, ErrTranslationFailed) {
		t.Fatalf("expected error to match ErrTranslationFailed, got %v", err)
	}
}

func TestAITranslatorRejectsIncompleteReply(t *testing.T) {
	translator := NewAITranslator("sk-test", "", "", 0)
	translator.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		return chatReply(t, http.StatusOK, `{"title":"Only title"}`), nil
	}})

	_, err := translator.Translate(context.Background(), "Judul", "<p>Isi</p>", language.English)
	if err == nil {
		t.Fatal("expected error for reply missing content")
	}
	if !errors.Is(err, ErrTranslationFailed) {
		t.Fatalf("expected ErrTranslationFailed, got %v", err)
	}
}

func TestAITranslatorSurfacesProviderError(t *testing.T) {
	translator := NewAITranslator("sk-test", "", "", 0)
	translator.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		body := `{"error":{"message":"quota exceeded"}}`
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	}})

	_, err := translator.Translate(context.Background(), "Judul", "<p>Isi</p>", language.English)
	if err == nil {
		t.Fatal("expected provider error")
	}
	var translationErr *TranslationError
	if !errors.As(err, &translationErr) {
		t.Fatalf("expected *TranslationError, got %T", err)
	}
	if !strings.Contains(translationErr.Detail, "quota exceeded") {
		t.Fatalf("expected provider message in detail, got %q", translationErr.Detail)
	}
}
