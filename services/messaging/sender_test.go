package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGatewaySenderPostsMessage(t *testing.T) {
	var got outboundMessage
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewGatewaySender(srv.URL+"/", "secret-token", 50, srv.Client())
	require.NoError(t, s.SendText(context.Background(), "5511@s.whatsapp.net", "olá"))

	assert.Equal(t, "/messages", path)
	assert.Equal(t, "Bearer secret-token", auth)
	assert.Equal(t, outboundMessage{To: "5511@s.whatsapp.net", Text: "olá"}, got)
}

func TestGatewaySenderReportsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session disconnected", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewGatewaySender(srv.URL, "", 0, srv.Client()).SendText(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "session disconnected")
}

func TestGatewaySenderHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewGatewaySender(srv.URL, "", 1, srv.Client()).SendText(ctx, "a", "b")
	assert.Error(t, err)
}

func TestLogSenderNeverFails(t *testing.T) {
	assert.NoError(t, NewLogSender(zap.NewNop()).SendText(context.Background(), "a", "b"))
	assert.NoError(t, NewLogSender(nil).SendText(context.Background(), "a", "b"))
}
