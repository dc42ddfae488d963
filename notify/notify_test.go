package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureServer(t *testing.T, status int) (*httptest.Server, *[]byte) {
	t.Helper()
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = data
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &body
}

func TestFeishuSendPayload(t *testing.T) {
	srv, body := captureServer(t, http.StatusOK)

	f := NewFeishu(srv.URL, WithRateLimit(0))
	require.NoError(t, f.Send(context.Background(), "disk usage at 92%"))

	var payload struct {
		MsgType string `json:"msg_type"`
		Content struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(*body, &payload))
	assert.Equal(t, "text", payload.MsgType)
	assert.Equal(t, "disk usage at 92%", payload.Content.Text)
}

func TestDingTalkSendPayload(t *testing.T) {
	srv, body := captureServer(t, http.StatusOK)

	d := NewDingTalk(srv.URL, WithRateLimit(0))
	require.NoError(t, d.Send(context.Background(), "nightly import done"))

	var payload struct {
		MsgType string `json:"msgtype"`
		Text    struct {
			Content string `json:"content"`
		} `json:"text"`
	}
	require.NoError(t, json.Unmarshal(*body, &payload))
	assert.Equal(t, "text", payload.MsgType)
	assert.Equal(t, "nightly import done", payload.Text.Content)
}

func TestSendRejectedStatus(t *testing.T) {
	srv, _ := captureServer(t, http.StatusBadRequest)

	f := NewFeishu(srv.URL, WithRateLimit(0))
	err := f.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestSendEmptyWebhook(t *testing.T) {
	f := NewFeishu("", WithRateLimit(0))
	err := f.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook URL is empty")
}

func TestSendUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	d := NewDingTalk(srv.URL, WithRateLimit(0))
	require.Error(t, d.Send(context.Background(), "hello"))
}

func TestRateLimitThrottles(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)

	f := NewFeishu(srv.URL, WithRateLimit(20))
	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, f.Send(context.Background(), "tick"))
	}

	// Burst 1 at 20/s forces ~50ms gaps between the second and third call.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRateLimitHonorsCancel(t *testing.T) {
	srv, _ := captureServer(t, http.StatusOK)

	f := NewFeishu(srv.URL, WithRateLimit(0.01))
	require.NoError(t, f.Send(context.Background(), "first"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := f.Send(ctx, "second")
	require.Error(t, err)
}

func TestWithTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	d := NewDingTalk(srv.URL, WithRateLimit(0), WithTimeout(20*time.Millisecond))
	require.Error(t, d.Send(context.Background(), "slow"))
}
