package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPublishSummary(t *testing.T) {
	t.Parallel()

	var (
		gotPath   string
		gotChatID string
		gotText   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotPath = r.URL.Path
		gotChatID = r.PostFormValue("chat_id")
		gotText = r.PostFormValue("text")
	}))
	t.Cleanup(server.Close)

	n := NewNotifier("token-123", "chat-456")
	n.apiBase = server.URL
	n.client = server.Client()

	if err := n.PublishSummary(context.Background(), "3 new articles"); err != nil {
		t.Fatalf("PublishSummary: %v", err)
	}

	if gotPath != "/bottoken-123/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotChatID != "chat-456" {
		t.Fatalf("unexpected chat id: %s", gotChatID)
	}
	if !strings.Contains(gotText, "3 new articles") {
		t.Fatalf("unexpected text: %s", gotText)
	}
}

func TestPublishSummaryAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	n := NewNotifier("token", "chat")
	n.apiBase = server.URL
	n.client = server.Client()

	if err := n.PublishSummary(context.Background(), "summary"); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestPublishSummaryMisconfigured(t *testing.T) {
	t.Parallel()

	n := NewNotifier("", "")
	if err := n.PublishSummary(context.Background(), "summary"); err == nil {
		t.Fatalf("expected error for missing credentials")
	}
}
