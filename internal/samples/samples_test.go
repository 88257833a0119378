package samples

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type received struct {
	kind     string
	delivery string
	body     map[string]any
}

func recordingServer(t *testing.T, status int) (*httptest.Server, func() []received) {
	t.Helper()

	var (
		mu  sync.Mutex
		got []received
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var body map[string]any
		assert.NoError(t, json.Unmarshal(raw, &body))

		mu.Lock()
		got = append(got, received{
			kind:     r.Header.Get("X-GitHub-Event"),
			delivery: r.Header.Get("X-GitHub-Delivery"),
			body:     body,
		})
		mu.Unlock()

		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"ok"}` + "\n"))
	}))
	t.Cleanup(srv.Close)

	return srv, func() []received {
		mu.Lock()
		defer mu.Unlock()
		return append([]received(nil), got...)
	}
}

func TestSender_SendAll(t *testing.T) {
	srv, got := recordingServer(t, http.StatusCreated)
	s := NewSender(srv.URL, 0, zap.NewNop())

	results, err := s.SendAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		assert.Equal(t, http.StatusCreated, r.Status)
		assert.Equal(t, `{"message":"ok"}`, r.Body)
	}

	reqs := got()
	require.Len(t, reqs, 3)
	assert.Equal(t, "push", reqs[0].kind)
	assert.Equal(t, "pull_request", reqs[1].kind)
	assert.Equal(t, "pull_request", reqs[2].kind)
	assert.Equal(t, "opened", reqs[1].body["action"])
	assert.Equal(t, "closed", reqs[2].body["action"])

	for _, r := range reqs {
		assert.NotEmpty(t, r.delivery)
	}
	assert.NotEqual(t, reqs[0].delivery, reqs[1].delivery)
}

func TestPush_UniqueCommit(t *testing.T) {
	a := Push().Payload["after"].(string)
	b := Push().Payload["after"].(string)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestSender_NonSuccessIsNotAnError(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusInternalServerError)
	s := NewSender(srv.URL, 0, zap.NewNop())

	res, err := s.Send(context.Background(), Merge())
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, "merge", res.Name)
}

func TestSender_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewSender(url, 0, zap.NewNop()).SendAll(context.Background())
	assert.Error(t, err)
}

func TestSender_CancelDuringDelay(t *testing.T) {
	srv, got := recordingServer(t, http.StatusCreated)
	s := NewSender(srv.URL, time.Hour, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	results, err := s.SendAll(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, results, 1)
	assert.Len(t, got(), 1)
}
