package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"convolog/pkg/analytics"
	"convolog/pkg/config"
	"convolog/pkg/convo"
	"convolog/pkg/models"
)

func newTestServer(t *testing.T, sec config.SecurityConfig) *httptest.Server {
	t.Helper()
	lex := analytics.DefaultLexicon()
	cls, err := analytics.NewClassifier(lex)
	if err != nil {
		t.Fatalf("classifier: %v", err)
	}
	ext, err := analytics.NewExtractor(10, 5, 3, lex)
	if err != nil {
		t.Fatalf("extractor: %v", err)
	}
	srv := httptest.NewServer(New(convo.NewRegistry(nil), analytics.NewAggregator(cls, ext), sec).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := client.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestConversationFlow(t *testing.T) {
	srv := newTestServer(t, config.SecurityConfig{})
	client := srv.Client()

	// create conversation
	resp := postJSON(t, client, srv.URL+"/v1/conversations", map[string]string{"id": "standup"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create conversation: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	base := srv.URL + "/v1/conversations/standup"

	// append three messages, the third replying to the first
	for _, body := range []map[string]any{
		{"sender": "Alice", "content": "Great idea!", "type": "text"},
		{"sender": "Bob", "content": "I disagree", "type": "text"},
		{"sender": "Alice", "content": "Let's vote", "type": "text", "thread_id": 0},
	} {
		resp := postJSON(t, client, base+"/messages", body)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("append message: expected 201, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	// react to the first message
	resp = postJSON(t, client, base+"/messages/0/reactions", map[string]string{"user": "Bob", "reaction": "👍"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add reaction: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// replies of the root
	resp, err := client.Get(base + "/threads/0/replies")
	if err != nil {
		t.Fatalf("get replies: %v", err)
	}
	var replies struct {
		Root    int   `json:"root"`
		Replies []int `json:"replies"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&replies); err != nil {
		t.Fatalf("decode replies: %v", err)
	}
	resp.Body.Close()
	if len(replies.Replies) != 1 || replies.Replies[0] != 2 {
		t.Fatalf("expected replies [2], got %v", replies.Replies)
	}

	// snapshot: field names are the export contract
	resp, err = client.Get(base + "/analytics")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	resp.Body.Close()
	for _, key := range []string{
		"totalMessages", "activeUsers", "messagesPerUser",
		"reactionsPerMessage", "sentimentSeries", "topicWindows",
		"interactionMatrix",
	} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("snapshot missing contract key %q", key)
		}
	}
	var snap models.Snapshot
	b, _ := json.Marshal(raw)
	if err := json.Unmarshal(b, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.TotalMessages != 3 || snap.MessagesPerUser["Alice"] != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.InteractionMatrix["Bob"]["Alice"] != 1 {
		t.Fatalf("expected Bob->Alice 1, got %v", snap.InteractionMatrix)
	}
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t, config.SecurityConfig{})
	client := srv.Client()

	resp := postJSON(t, client, srv.URL+"/v1/conversations", map[string]string{"id": "room"})
	resp.Body.Close()
	base := srv.URL + "/v1/conversations/room"

	// unknown message type
	resp = postJSON(t, client, base+"/messages", map[string]any{"sender": "a", "content": "x", "type": "voice"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid type: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// forward thread reference
	resp = postJSON(t, client, base+"/messages", map[string]any{"sender": "a", "content": "x", "type": "text", "thread_id": 7})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad thread ref: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// reaction against a missing message
	resp = postJSON(t, client, base+"/messages/5/reactions", map[string]string{"user": "a", "reaction": "x"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing target: expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// limit must be a non-negative integer, like since/until
	for _, lim := range []string{"abc", "-1", "1.5"} {
		resp, err := client.Get(base + "/messages?limit=" + lim)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("limit=%s: expected 400, got %d", lim, resp.StatusCode)
		}
		resp.Body.Close()
	}

	// unknown conversation
	resp, err := client.Get(srv.URL + "/v1/conversations/nope/analytics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing conversation: expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMessageFiltering(t *testing.T) {
	srv := newTestServer(t, config.SecurityConfig{})
	client := srv.Client()

	resp := postJSON(t, client, srv.URL+"/v1/conversations", map[string]string{"id": "room"})
	resp.Body.Close()
	base := srv.URL + "/v1/conversations/room"

	for _, body := range []map[string]any{
		{"sender": "alice", "content": "hi", "type": "text"},
		{"sender": "system", "content": "joined", "type": "system"},
		{"sender": "alice", "content": "bye", "type": "text"},
	} {
		resp := postJSON(t, client, base+"/messages", body)
		resp.Body.Close()
	}

	resp, err := client.Get(base + "/messages?sender=alice&type=text")
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	var out struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if len(out.Messages) != 2 {
		t.Fatalf("expected 2 filtered messages, got %d", len(out.Messages))
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	var sec config.SecurityConfig
	sec.APIKeys = []string{"sekret"}
	srv := newTestServer(t, sec)
	client := srv.Client()

	resp, err := client.Get(srv.URL + "/v1/conversations")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/conversations", nil)
	req.Header.Set("X-API-Key", "sekret")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("get with key: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
