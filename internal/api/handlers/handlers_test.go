package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/VechkanovVV/webhook-repo/internal/api/dto"
	"github.com/VechkanovVV/webhook-repo/internal/normalizer"
	"github.com/VechkanovVV/webhook-repo/internal/service"
	"github.com/VechkanovVV/webhook-repo/internal/storage"
)

type stubRepo struct {
	events    []storage.Event
	appendErr error
	recentErr error
}

func (s *stubRepo) Append(_ context.Context, ev storage.Event) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *stubRepo) Recent(_ context.Context, limit int) ([]storage.Event, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	if len(s.events) > limit {
		return s.events[:limit], nil
	}
	return s.events, nil
}

func (s *stubRepo) Clear(context.Context) error {
	s.events = nil
	return nil
}

func newHandlers(repo storage.EventRepository, maxBody int64) (*WebhookHandler, *EventHandler) {
	svc := service.NewEventService(repo, normalizer.New(), nil, zap.NewNop(), 50)
	return NewWebhookHandler(svc, maxBody, zap.NewNop()), NewEventHandler(svc, zap.NewNop())
}

func post(h *WebhookHandler, kind, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if kind != "" {
		req.Header.Set(HeaderEvent, kind)
	}
	req.Header.Set(HeaderDelivery, "72d3162e-cc78-11e3-81ab-4c9367dc0958")

	rec := httptest.NewRecorder()
	h.Receive(rec, req)
	return rec
}

func TestWebhookHandler_Recorded(t *testing.T) {
	repo := &stubRepo{}
	h, _ := newHandlers(repo, 1<<20)

	rec := post(h, "push", `{"after":"abc","ref":"refs/heads/staging","sender":{"login":"Travis"},"head_commit":{"timestamp":"2021-04-01T21:30:00Z"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp dto.MessageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, MessageRecorded, resp.Message)
	require.NotNil(t, resp.Event)
	assert.Equal(t, "PUSH", resp.Event.Action)
	assert.Equal(t, "2021-04-01T21:30:00+00:00", resp.Event.Timestamp)
	assert.Len(t, repo.events, 1)
}

func TestWebhookHandler_Ignored(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		body    string
		message string
	}{
		{name: "labeled", kind: "pull_request", body: `{"action":"labeled","pull_request":{"id":1}}`, message: "Ignored PR action: labeled"},
		{name: "issue comment", kind: "issue_comment", body: `{"action":"created"}`, message: "Event issue_comment received but ignored"},
		{name: "no kind header", kind: "", body: `{"zen":"Keep it logically awesome."}`, message: "Event  received but ignored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepo{}
			h, _ := newHandlers(repo, 1<<20)

			rec := post(h, tt.kind, tt.body)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp dto.MessageResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.message, resp.Message)
			assert.Nil(t, resp.Event)
			assert.Empty(t, repo.events)
		})
	}
}

func TestWebhookHandler_BadRequest(t *testing.T) {
	h, _ := newHandlers(&stubRepo{}, 1<<20)

	for _, body := range []string{"", "{}", "{broken"} {
		rec := post(h, "issue_comment", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)

		var resp dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
		assert.Equal(t, "No payload provided", resp.Error.Message)
	}
}

func TestWebhookHandler_TooLarge(t *testing.T) {
	h, _ := newHandlers(&stubRepo{}, 16)

	rec := post(h, "push", `{"after":"0123456789abcdef0123456789abcdef"}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "PAYLOAD_TOO_LARGE", resp.Error.Code)
}

func TestWebhookHandler_StorageFailure(t *testing.T) {
	h, _ := newHandlers(&stubRepo{appendErr: errors.New("pq: relation \"events\" does not exist")}, 1<<20)

	rec := post(h, "push", `{"after":"abc","ref":"refs/heads/main"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "STORAGE_WRITE_FAILED", resp.Error.Code)
	assert.Equal(t, "Database insertion failed", resp.Error.Message)
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestEventHandler_List(t *testing.T) {
	repo := &stubRepo{events: []storage.Event{
		{RequestID: "2", Author: "Travis", Action: storage.ActionMerge, FromBranch: "dev", ToBranch: "master", Timestamp: "2021-04-02T12:00:00+00:00"},
		{RequestID: "1", Author: "Travis", Action: storage.ActionPush, ToBranch: "staging", Timestamp: "2021-04-01T21:30:00+00:00"},
	}}
	_, h := newHandlers(repo, 1<<20)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw, 2)
	assert.Len(t, raw[0], 6)
	assert.NotContains(t, raw[0], "id")
	assert.NotContains(t, raw[0], "_id")
	assert.Equal(t, "MERGE", raw[0]["action"])
	assert.Equal(t, "", raw[1]["from_branch"])
}

func TestEventHandler_ListEmptyIsArray(t *testing.T) {
	_, h := newHandlers(&stubRepo{}, 1<<20)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestEventHandler_ListStorageFailure(t *testing.T) {
	_, h := newHandlers(&stubRepo{recentErr: errors.New("connection refused")}, 1<<20)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "STORAGE_READ_FAILED", resp.Error.Code)
	assert.Equal(t, "connection refused", resp.Error.Message)
}
