package nodeclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPNodeClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "306930000000", r.URL.Query().Get("id"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("RoutingID: 888000"))
	}))
	defer server.Close()

	client := NewHTTPNodeClient(testLogger(), server.Client())
	status, body, err := client.Get(context.Background(), server.URL+"?id=306930000000")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "RoutingID: 888000", body)
}

func TestHTTPNodeClient_Get_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "node busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPNodeClient(testLogger(), server.Client())
	status, _, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestHTTPNodeClient_Get_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPNodeClient(testLogger(), server.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := client.Get(ctx, server.URL)
	assert.Error(t, err)
}

func TestHTTPNodeClient_Get_ConnectionRefused(t *testing.T) {
	client := NewHTTPNodeClient(testLogger(), nil)
	_, _, err := client.Get(context.Background(), "http://127.0.0.1:1/unreachable")
	assert.Error(t, err)
}
