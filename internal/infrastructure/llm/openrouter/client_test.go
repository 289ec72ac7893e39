package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    1,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     2.0,

		BreakerMinRequests:      100,
		BreakerFailureRatio:     0.99,
		BreakerOpenTimeout:      time.Minute,
		BreakerHalfOpenMaxCalls: 1,
	})
}

func completionResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func TestClassifyParsesEmotionJSON(t *testing.T) {
	var gotReferer string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(completionResponse(`{"emotion": "joy", "confidence": 0.83}`))
	}))
	defer server.Close()

	client := New(server.URL, "qwen/qwen2.5-72b-instruct", "key", "https://app.test", testExecutor())
	result, err := client.Classify(context.Background(), "I am thrilled")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReferer != "https://app.test" {
		t.Fatalf("expected referer header, got %q", gotReferer)
	}
	if gotBody["model"] != "qwen/qwen2.5-72b-instruct" {
		t.Fatalf("expected model in request, got %v", gotBody["model"])
	}
	format, _ := gotBody["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", gotBody["response_format"])
	}

	if result.Emotion != domain.EmotionJoy {
		t.Fatalf("expected joy, got %q", result.Emotion)
	}
	if result.Confidence != 0.83 {
		t.Fatalf("expected confidence 0.83, got %v", result.Confidence)
	}
}

func TestClassifyHandlesFencedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse(
			"Sure! Here is the verdict:\n```json\n{\"emotion\": \"fear\", \"confidence\": 1.4}\n```",
		))
	}))
	defer server.Close()

	client := New(server.URL, "m", "key", "", testExecutor())
	result, err := client.Classify(context.Background(), "I am terrified")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Emotion != domain.EmotionFear {
		t.Fatalf("expected fear, got %q", result.Emotion)
	}
	if result.Confidence != 1.0 {
		t.Fatalf("expected confidence clamped to 1.0, got %v", result.Confidence)
	}
}

func TestClassifyMissingFieldsIsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse(`{"mood": "great"}`))
	}))
	defer server.Close()

	client := New(server.URL, "m", "key", "", testExecutor())
	_, err := client.Classify(context.Background(), "hello")
	if domain.AdapterFailureOf(err) != domain.FailureParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
}

func TestChatInjectsEmotionIntoSystemPrompt(t *testing.T) {
	var gotBody struct {
		Messages []message `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(completionResponse("I hear you."))
	}))
	defer server.Close()

	client := New(server.URL, "m", "key", "", testExecutor())
	reply, err := client.Chat(context.Background(),
		[]domain.ChatMessage{{Role: "user", Content: "rough day"}},
		domain.EmotionSadness,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "I hear you." {
		t.Fatalf("unexpected reply %q", reply)
	}

	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Fatalf("expected system prompt first, got %+v", gotBody.Messages)
	}
	if want := "sadness"; !strings.Contains(gotBody.Messages[0].Content, want) {
		t.Fatalf("expected emotion %q in system prompt: %q", want, gotBody.Messages[0].Content)
	}
}

func TestSummarizeTruncatesOverlongAnswer(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse(string(long)))
	}))
	defer server.Close()

	client := New(server.URL, "m", "key", "", testExecutor())
	summary, err := client.Summarize(context.Background(), "some long text", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary) != 100 {
		t.Fatalf("expected 100-char summary, got %d", len(summary))
	}
}

func TestHTTPErrorIsTyped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no credits", http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := New(server.URL, "m", "key", "", testExecutor())
	_, err := client.Chat(context.Background(), []domain.ChatMessage{{Role: "user", Content: "hi"}}, "")
	if domain.AdapterFailureOf(err) != domain.FailureHTTPError {
		t.Fatalf("expected http_error, got %v", err)
	}
}
