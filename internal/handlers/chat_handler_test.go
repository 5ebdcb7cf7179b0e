package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-analytics-backend/internal/services/chat"
)

func chatRouter(client *chat.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/chat-with-data", NewChatHandler(client).Query)
	return r
}

func postChat(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat-with-data", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestChatRequiresQuery(t *testing.T) {
	r := chatRouter(chat.NewClient("http://example.invalid"))

	for _, body := range []string{``, `{}`, `{"query":"   "}`, `{"query":42}`} {
		w := postChat(r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestChatRelaysUpstreamResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sql":"SELECT name FROM vendors","data":[]}`))
	}))
	defer upstream.Close()

	r := chatRouter(chat.NewClient(upstream.URL))
	w := postChat(r, `{"query":"list vendors"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sql":"SELECT name FROM vendors","data":[]}`, w.Body.String())
}

func TestChatDistinguishesFailureModes(t *testing.T) {
	// upstream rejection
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"no matching tables"}`))
	}))
	r := chatRouter(chat.NewClient(upstream.URL))
	w := postChat(r, `{"query":"nonsense"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "no matching tables")
	upstream.Close()

	// network-level failure
	w = postChat(r, `{"query":"nonsense"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "cannot connect")

	// unconfigured service
	r = chatRouter(chat.NewClient(""))
	w = postChat(r, `{"query":"anything"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}
