package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedOriginsFollowListenAddress(t *testing.T) {
	origins := allowedOrigins("192.168.1.5:9000")

	for _, want := range []string{
		"http://192.168.1.5:9000",
		"http://localhost:9000",
		"http://127.0.0.1:9000",
		"http://[::1]:9000",
		"https://192.168.1.5:9000",
	} {
		_, ok := origins[want]
		assert.True(t, ok, "missing origin %s", want)
	}

	_, ok := origins["http://localhost:8080"]
	assert.False(t, ok, "port from another listen address must not be allowed")
}

func TestAllowedOriginsWildcardBindKeepsLoopbackOnly(t *testing.T) {
	origins := allowedOrigins("0.0.0.0:8080")

	_, ok := origins["http://localhost:8080"]
	assert.True(t, ok)
	for origin := range origins {
		assert.False(t, strings.Contains(origin, "0.0.0.0"), "wildcard host is not a browser origin")
	}
}

func TestCheckOrigin(t *testing.T) {
	m := NewWSManager(":9000")

	mk := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.True(t, m.checkOrigin(mk("")), "non-browser clients send no Origin")
	assert.True(t, m.checkOrigin(mk("http://localhost:9000")))
	assert.False(t, m.checkOrigin(mk("http://localhost:8080")))
	assert.False(t, m.checkOrigin(mk("http://evil.example")))
}

func TestHandleWebSocketRejectsForeignOrigin(t *testing.T) {
	m := NewWSManager(":9000")
	defer m.Close()
	srv := httptest.NewServer(http.HandlerFunc(m.HandleWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Origin": []string{"http://evil.example"}}

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
