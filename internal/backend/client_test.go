package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, h http.HandlerFunc, tokens oauth2.TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second, Tokens: tokens})
}

func TestContextTokenOverridesServiceToken(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "service-token"}))

	if _, err := c.ListPolls(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Bearer service-token" {
		t.Fatalf("expected service token, got %q", got)
	}

	ctx := WithToken(context.Background(), "caller-token")
	if _, err := c.ListPolls(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Bearer caller-token" {
		t.Fatalf("expected caller token to win, got %q", got)
	}
}

func TestMissingCredentialForwardedAsAbsent(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "unauthorized"})
	}, nil)

	_, err := c.ListPolls(context.Background())
	if got != "" {
		t.Fatalf("expected no Authorization header, got %q", got)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if apiErr.Message != "unauthorized" {
		t.Fatalf("expected backend message surfaced, got %q", apiErr.Message)
	}
}

func TestNotFoundIsSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no survey", http.StatusNotFound)
	}, nil)

	_, err := c.SurveyByArticle(context.Background(), "a1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBackendErrorFieldFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "bad poll"})
	}, nil)

	_, err := c.CreatePoll(context.Background(), PollPayload{Title: "t"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "bad poll" {
		t.Fatalf("expected error field fallback, got %q", apiErr.Message)
	}
}

func TestVoteBody(t *testing.T) {
	var body map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/polls/p1/vote" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}, nil)

	if err := c.Vote(context.Background(), "p1", "o2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["optionId"] != "o2" {
		t.Fatalf("expected optionId o2, got %v", body)
	}
}

func TestSubmitAnswersBody(t *testing.T) {
	var body struct {
		Answers []AnswerPayload `json:"answers"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
	}, nil)

	answers := []AnswerPayload{{QuestionID: "q1", OptionID: "o1"}}
	if err := c.SubmitAnswers(context.Background(), "s1", answers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body.Answers) != 1 || body.Answers[0].QuestionID != "q1" {
		t.Fatalf("unexpected answers body: %+v", body.Answers)
	}
}
