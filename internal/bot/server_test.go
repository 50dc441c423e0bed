package bot

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okatu-loli/leetcode-daily/internal/cache"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := cache.NewStore(filepath.Join(t.TempDir(), "cache.json"))
	handler := NewHandler(happyProvider(), store, &mockRenderer{}, quietLogger())
	return NewServer("每日一题", handler, quietLogger())
}

func postMessage(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

type webhookResponse struct {
	Messages []MessagePart `json:"messages"`
}

func TestWebhookCommandInvocation(t *testing.T) {
	s := newTestServer(t)
	w := postMessage(t, s, `{"session":"chan-1","content":"每日一题"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp webhookResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 parts, got %d: %+v", len(resp.Messages), resp.Messages)
	}
	if resp.Messages[0].Type != "text" || !strings.Contains(resp.Messages[0].Content, "今日题目") {
		t.Errorf("unexpected text part: %+v", resp.Messages[0])
	}
	img := resp.Messages[1]
	if img.Type != "image" || img.MIME != "image/png" {
		t.Errorf("unexpected image part: %+v", img)
	}
	if data, err := base64.StdEncoding.DecodeString(img.Data); err != nil || len(data) == 0 {
		t.Errorf("image data should be non-empty base64, err=%v", err)
	}
}

func TestWebhookIgnoresOtherMessages(t *testing.T) {
	s := newTestServer(t)
	w := postMessage(t, s, `{"session":"chan-1","content":"hello there"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp webhookResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Messages) != 0 {
		t.Errorf("non-command message should get no parts, got %+v", resp.Messages)
	}
}

func TestWebhookTrimsCommand(t *testing.T) {
	s := newTestServer(t)
	w := postMessage(t, s, `{"session":"chan-1","content":"  每日一题  "}`)

	var resp webhookResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Errorf("whitespace-padded command should still match, got %+v", resp.Messages)
	}
}

func TestWebhookRejectsBadPayload(t *testing.T) {
	s := newTestServer(t)
	w := postMessage(t, s, `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestWebhookFailureReply(t *testing.T) {
	store := cache.NewStore(filepath.Join(t.TempDir(), "cache.json"))
	handler := NewHandler(&mockProvider{}, store, &mockRenderer{}, quietLogger())
	s := NewServer("每日一题", handler, quietLogger())

	w := postMessage(t, s, `{"session":"chan-1","content":"每日一题"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp webhookResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Messages) != 1 || resp.Messages[0].Content != msgDailyUnavailable {
		t.Errorf("expected the single failure part, got %+v", resp.Messages)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

var _ Session = (*replyCollector)(nil)
