package chat

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/storefront-backend/internal/catalog"
	"github.com/wichananm65/storefront-backend/internal/logger"
)

const completionJSON = `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"llama-3.3-70b-versatile",
"choices":[{"index":0,"message":{"role":"assistant","content":"Dạ, shop có iPhone 15 ạ"},"finish_reason":"stop"}],
"usage":{"prompt_tokens":120,"completion_tokens":12,"total_tokens":132}}`

type fakeGroq struct {
	status int
	body   string
	calls  atomic.Int32
	last   atomic.Value // openai.ChatCompletionRequest
}

func (f *fakeGroq) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	var req openai.ChatCompletionRequest
	raw, _ := io.ReadAll(r.Body)
	if json.Unmarshal(raw, &req) == nil {
		f.last.Store(req)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	w.Write([]byte(f.body))
}

type fakeCatalogServer struct {
	hits atomic.Int32
}

func (f *fakeCatalogServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/products/public":
		w.Write([]byte(`{"data":{"products":[{"id":3,"name":"iPhone 15","slug":"iphone-15","price":20000000,"discount":5,"countInStock":7}],"totalCount":1}}`))
	case "/api/product-types":
		w.Write([]byte(`{"data":{"productTypes":[{"id":1,"name":"Điện thoại","slug":"dien-thoai"}]}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newChatApp(t *testing.T, groq *fakeGroq) (*fiber.App, *fakeCatalogServer) {
	t.Helper()
	groqSrv := httptest.NewServer(groq)
	t.Cleanup(groqSrv.Close)
	cat := &fakeCatalogServer{}
	catSrv := httptest.NewServer(cat)
	t.Cleanup(catSrv.Close)

	svc := NewService(
		catalog.NewClient(catSrv.URL, time.Second),
		NewGroqClient("test-key", groqSrv.URL),
		"llama-3.3-70b-versatile",
		logger.Discard(),
	)
	app := fiber.New()
	NewHandler(svc).RegisterPublicRoutes(app)
	return app, cat
}

func postChat(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/chat/groq", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, 5000)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return res.StatusCode, out
}

func TestChat_ProductQuestion(t *testing.T) {
	groq := &fakeGroq{status: http.StatusOK, body: completionJSON}
	app, cat := newChatApp(t, groq)

	code, body := postChat(t, app, `{"message":"có sản phẩm nào giảm giá không","history":[{"text":"xin chào","isUser":true}]}`)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, int32(1), cat.hits.Load())
	assert.Equal(t, "Dạ, shop có iPhone 15 ạ", body["message"])
	require.Len(t, body["products"], 1)
	assert.NotNil(t, body["usage"])

	sent := groq.last.Load().(openai.ChatCompletionRequest)
	require.Len(t, sent.Messages, 3)
	assert.Contains(t, sent.Messages[0].Content, "/product/iphone-15")
	assert.Equal(t, "xin chào", sent.Messages[1].Content)
}

func TestChat_SmallTalk(t *testing.T) {
	groq := &fakeGroq{status: http.StatusOK, body: completionJSON}
	app, cat := newChatApp(t, groq)

	code, body := postChat(t, app, `{"message":"tạm biệt"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Zero(t, cat.hits.Load())
	_, hasProducts := body["products"]
	assert.False(t, hasProducts)
}

func TestChat_UpstreamErrors(t *testing.T) {
	cases := []struct {
		status  int
		body    string
		want    int
		message string
	}{
		{http.StatusUnauthorized, `{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`, 401, "Invalid API key"},
		{http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"tokens","code":"rate_limit_exceeded"}}`, 429, "Rate limit exceeded. Please try again later."},
		{http.StatusBadGateway, `upstream broke`, 500, "Internal server error"},
	}
	for _, tc := range cases {
		groq := &fakeGroq{status: tc.status, body: tc.body}
		app, _ := newChatApp(t, groq)

		code, body := postChat(t, app, `{"message":"có iphone 15 không"}`)
		assert.Equal(t, tc.want, code)
		assert.Equal(t, tc.message, body["error"])
		_, hasProducts := body["products"]
		assert.False(t, hasProducts, "no products on errors")
		assert.Equal(t, int32(1), groq.calls.Load(), "no retry")
		if tc.want == 500 {
			assert.NotEmpty(t, body["details"])
		}
	}
}

func TestChat_BadRequests(t *testing.T) {
	app, _ := newChatApp(t, &fakeGroq{status: http.StatusOK, body: completionJSON})

	code, body := postChat(t, app, `{"message":""}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Message is required", body["error"])

	res, err := app.Test(httptest.NewRequest("GET", "/api/chat/groq", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}
