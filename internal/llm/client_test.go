package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/econsearch/papers-mcp/internal/config"
)

// chatServer returns an httptest server that answers every chat
// completion with the given content.
func chatServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); !strings.HasPrefix(got, "Bearer ") {
			t.Errorf("missing bearer auth, got %q", got)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	t.Setenv("TEST_LLM_API_KEY", "test-key")
	return NewClient(config.LLMSettings{
		BaseURL:     baseURL,
		Model:       "test-model",
		APIKeyEnv:   "TEST_LLM_API_KEY",
		MaxKeywords: 6,
	})
}

func TestGenerateKeywords(t *testing.T) {
	server := chatServer(t, "inflation expectations\n- monetary policy\nphillips curve.", http.StatusOK)
	defer server.Close()

	client := testClient(t, server.URL)
	got := client.GenerateKeywords(context.Background(), "What drives inflation?", 5)

	want := []string{"inflation expectations", "monetary policy", "phillips curve"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GenerateKeywords = %v, want %v", got, want)
	}
}

func TestGenerateKeywords_TruncatesToN(t *testing.T) {
	server := chatServer(t, "one\ntwo\nthree\nfour", http.StatusOK)
	defer server.Close()

	client := testClient(t, server.URL)
	got := client.GenerateKeywords(context.Background(), "question", 2)
	if len(got) != 2 {
		t.Errorf("expected 2 keywords, got %v", got)
	}
}

func TestGenerateKeywords_FallbackOnServerError(t *testing.T) {
	server := chatServer(t, "", http.StatusInternalServerError)
	defer server.Close()

	client := testClient(t, server.URL)
	got := client.GenerateKeywords(context.Background(), "What drives inflation dynamics?", 5)

	want := []string{"what", "drives", "inflation", "dynamics?"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fallback keywords = %v, want %v", got, want)
	}
}

func TestGenerateKeywords_FallbackWithoutAPIKey(t *testing.T) {
	t.Setenv("TEST_LLM_API_KEY", "")
	client := NewClient(config.LLMSettings{APIKeyEnv: "TEST_LLM_API_KEY"})

	got := client.GenerateKeywords(context.Background(), "monetary policy rates", 3)
	want := []string{"monetary", "policy", "rates"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fallback keywords = %v, want %v", got, want)
	}
}

func TestFallbackKeywords(t *testing.T) {
	tests := []struct {
		name     string
		question string
		n        int
		want     []string
	}{
		{"drops short tokens", "is it an inflation shock", 5, []string{"inflation", "shock"}},
		{"dedupes", "growth growth growth", 3, []string{"growth"}},
		{"respects n", "alpha beta gamma delta", 2, []string{"alpha", "beta"}},
		{"all short falls back to question", "a b c", 3, []string{"a b c"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FallbackKeywords(tc.question, tc.n)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("FallbackKeywords(%q, %d) = %v, want %v", tc.question, tc.n, got, tc.want)
			}
		})
	}
}

func TestAnswerWithContext(t *testing.T) {
	server := chatServer(t, "Policy rates drive inflation [Source 1].", http.StatusOK)
	defer server.Close()

	client := testClient(t, server.URL)
	answer, err := client.AnswerWithContext(context.Background(), "What drives inflation?",
		[]string{"Title: Monetary Policy\n\nPolicy rates move prices."})
	if err != nil {
		t.Fatalf("AnswerWithContext failed: %v", err)
	}
	if answer != "Policy rates drive inflation [Source 1]." {
		t.Errorf("answer = %q", answer)
	}
}

func TestAnswerWithContext_NoUsableContexts(t *testing.T) {
	client := testClient(t, "http://127.0.0.1:1")

	answer, err := client.AnswerWithContext(context.Background(), "question", []string{"", "  "})
	if err != nil {
		t.Fatalf("AnswerWithContext failed: %v", err)
	}
	if !strings.Contains(answer, "No relevant documents") {
		t.Errorf("answer = %q", answer)
	}
}

func TestAnswerWithContext_ServerError(t *testing.T) {
	server := chatServer(t, "", http.StatusBadGateway)
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.AnswerWithContext(context.Background(), "question", []string{"some context"})
	if err == nil {
		t.Fatal("expected error for failing completion endpoint")
	}
}

func TestSummarizeDocument_EmptyText(t *testing.T) {
	client := testClient(t, "http://127.0.0.1:1")

	summary, err := client.SummarizeDocument(context.Background(), "Some Title", "   ")
	if err != nil {
		t.Fatalf("SummarizeDocument failed: %v", err)
	}
	if !strings.Contains(summary, "No content") {
		t.Errorf("summary = %q", summary)
	}
}
