package describe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/inventory-console/internal/config"
	"github.com/rs/zerolog"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

func completionServer(t *testing.T, status int, content string, calls *int32, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		if seen != nil {
			json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		resp := map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "gpt-3.5-turbo",
			"choices": []map[string]interface{}{},
		}
		if content != "" {
			resp["choices"] = []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]interface{}{"role": "assistant", "content": content},
			}}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGenerator(baseURL, key string) *Generator {
	return NewGenerator(config.GeneratorConfig{
		BaseURL:     baseURL,
		APIKey:      key,
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		MaxTokens:   50,
		Timeout:     2 * time.Second,
	}, zerolog.Nop())
}

func TestGenerate_Success(t *testing.T) {
	var calls int32
	var seen chatRequest
	srv := completionServer(t, http.StatusOK, `"Durable pads for every office order."`, &calls, &seen)

	got := newTestGenerator(srv.URL, "sk-test").Generate(context.Background(), "Order pads", "Office")
	if got != "Durable pads for every office order." {
		t.Errorf("unexpected description %q", got)
	}
	if calls != 1 {
		t.Errorf("expected exactly one call, got %d", calls)
	}
	if seen.Model != "gpt-3.5-turbo" || seen.MaxTokens != 50 || seen.Temperature != 0.7 {
		t.Errorf("unexpected request parameters %+v", seen)
	}
	if len(seen.Messages) != 1 || seen.Messages[0].Role != "user" {
		t.Fatalf("expected one user message, got %+v", seen.Messages)
	}
	prompt := seen.Messages[0].Content
	if !strings.Contains(prompt, "Order pads") || !strings.Contains(prompt, "Office") || !strings.Contains(prompt, "20 words") {
		t.Errorf("prompt missing item details: %q", prompt)
	}
}

func TestGenerate_FallbackOnServerError(t *testing.T) {
	var calls int32
	srv := completionServer(t, http.StatusInternalServerError, "", &calls, nil)

	got := newTestGenerator(srv.URL, "sk-test").Generate(context.Background(), "Order pads", "Office")
	if got != "Smart description for Order pads in Office" {
		t.Errorf("unexpected fallback %q", got)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt without retry, got %d", calls)
	}
}

func TestGenerate_FallbackOnMissingChoice(t *testing.T) {
	var calls int32
	srv := completionServer(t, http.StatusOK, "", &calls, nil)

	got := newTestGenerator(srv.URL, "sk-test").Generate(context.Background(), "Tape", "Office")
	if got != Fallback("Tape", "Office") {
		t.Errorf("unexpected result %q", got)
	}
}

func TestGenerate_FallbackOnEmptyCompletion(t *testing.T) {
	for _, content := range []string{`""`, "   ", `'  '`} {
		var calls int32
		srv := completionServer(t, http.StatusOK, content, &calls, nil)

		got := newTestGenerator(srv.URL, "sk-test").Generate(context.Background(), "Pads", "Office")
		if got != "Smart description for Pads in Office" {
			t.Errorf("content %q: expected fallback, got %q", content, got)
		}
		if calls != 1 {
			t.Errorf("content %q: expected one call, got %d", content, calls)
		}
	}
}

func TestGenerate_FallbackWithoutKey(t *testing.T) {
	var calls int32
	srv := completionServer(t, http.StatusOK, "unused", &calls, nil)

	got := newTestGenerator(srv.URL, "").Generate(context.Background(), "Tape", "Office")
	if got != "Smart description for Tape in Office" {
		t.Errorf("unexpected result %q", got)
	}
	if calls != 0 {
		t.Errorf("no call expected without a key, got %d", calls)
	}
}

func TestGenerate_FallbackOnUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	got := newTestGenerator(url, "sk-test").Generate(context.Background(), "Tape", "Office")
	if got != Fallback("Tape", "Office") {
		t.Errorf("unexpected result %q", got)
	}
}

func TestStripQuotes(t *testing.T) {
	tests := map[string]string{
		`"quoted"`:      "quoted",
		`'single'`:      "single",
		`""double""`:    `"double"`,
		`"mismatched'`:  `"mismatched'`,
		`no quotes`:     "no quotes",
		`"`:             `"`,
		`""`:            "",
		`"inner" text`:  `"inner" text`,
	}
	for in, want := range tests {
		if got := StripQuotes(in); got != want {
			t.Errorf("StripQuotes(%q) = %q, want %q", in, got, want)
		}
	}
}
