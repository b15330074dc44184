package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/saboothailand/support-bot/internal/observability"
)

type chatReq struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func fakeAPI(t *testing.T, content string, delay time.Duration, seen *chatReq) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	if _, err := NewOpenAI(Options{APIKey: "  "}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}
	c, err := NewOpenAI(Options{APIKey: "k"})
	if err != nil || c.Model() != DefaultModel || c.timeout != DefaultTimeout {
		t.Fatalf("defaults not applied: %+v, %v", c, err)
	}
}

func TestComplete_SendsPromptAndTrims(t *testing.T) {
	var seen chatReq
	srv := fakeAPI(t, "  Hello from SABOO 😊 \n", 0, &seen)
	c, err := NewOpenAI(Options{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	got, err := c.Complete(context.Background(), Request{System: "sys", User: "hi", MaxTokens: 800, Temperature: 0.7})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Hello from SABOO 😊" {
		t.Fatalf("got %q", got)
	}
	if seen.Model != "gpt-4o-mini" || seen.MaxTokens != 800 || len(seen.Messages) != 2 ||
		seen.Messages[0].Role != "system" || seen.Messages[1].Content != "hi" {
		t.Fatalf("request not as expected: %+v", seen)
	}
	if n := testutil.CollectAndCount(observability.LLMDuration, "chatbot_llm_request_duration_seconds"); n < 1 {
		t.Fatalf("latency histogram not observed")
	}
}

func TestComplete_EmptyAnswer(t *testing.T) {
	srv := fakeAPI(t, "   ", 0, nil)
	c, _ := NewOpenAI(Options{APIKey: "test-key", BaseURL: srv.URL})
	if _, err := c.Complete(context.Background(), Request{User: "hi"}); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("want ErrEmptyCompletion, got %v", err)
	}
}

func TestComplete_Timeout(t *testing.T) {
	srv := fakeAPI(t, "late", time.Second, nil)
	c, _ := NewOpenAI(Options{APIKey: "test-key", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Complete(context.Background(), Request{User: "hi"})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > 900*time.Millisecond {
		t.Fatalf("timeout not enforced")
	}
}

func TestComplete_APIError(t *testing.T) {
	srv := fakeAPI(t, "x", 0, nil)
	c, _ := NewOpenAI(Options{APIKey: "wrong-key", BaseURL: srv.URL})
	if _, err := c.Complete(context.Background(), Request{User: "hi"}); err == nil {
		t.Fatalf("expected error on 401")
	}
}
