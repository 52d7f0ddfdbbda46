package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/serenity/backend/internal/testutil"
)

func routerLine(content string) string {
	return fmt.Sprintf(`data: {"choices":[{"delta":{"content":%q}}]}`, content)
}

func newOpenRouter(url string) *OpenRouterProvider {
	return NewOpenRouterProvider(OpenRouterOptions{
		APIKey:  "or_test",
		URL:     url,
		Referer: "https://healthai-app.com",
		Title:   "HealthAI Mental Health Chatbot",
		Params:  DefaultParams("mistralai/mixtral-8x7b-instruct"),
	})
}

func TestOpenRouterSendsHeadersAndBody(t *testing.T) {
	type captured struct {
		headers http.Header
		body    map[string]any
	}
	requests := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests <- captured{headers: r.Header.Clone(), body: body}
		fmt.Fprintln(w, routerLine("hello"))
	}))
	defer srv.Close()

	sr, err := newOpenRouter(srv.URL).Stream(context.Background(), []*schema.Message{
		schema.SystemMessage("policy"),
		schema.UserMessage("hi"),
	})
	require.NoError(t, err)
	out, err := testutil.Drain(sr)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	got := <-requests
	headers, body := got.headers, got.body
	assert.Equal(t, "Bearer or_test", headers.Get("Authorization"))
	assert.Equal(t, "https://healthai-app.com", headers.Get("HTTP-Referer"))
	assert.Equal(t, "HealthAI Mental Health Chatbot", headers.Get("X-Title"))
	assert.Contains(t, headers.Get("Content-Type"), "application/json")

	assert.Equal(t, "mistralai/mixtral-8x7b-instruct", body["model"])
	assert.Equal(t, true, body["stream"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-6)
	assert.EqualValues(t, 1024, body["max_tokens"])
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestOpenRouterSkipsInvalidLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		lines := []string{
			": OPENROUTER PROCESSING",
			routerLine("one "),
			"data: {not json",
			"",
			routerLine("two "),
			`data: {"choices":[]}`,
			routerLine("three"),
			"data: [DONE]",
		}
		for _, l := range lines {
			fmt.Fprintln(w, l)
			flusher.Flush()
		}
	}))
	defer srv.Close()

	sr, err := newOpenRouter(srv.URL).Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)

	out, err := testutil.Drain(sr)
	require.NoError(t, err)
	assert.Equal(t, "one two three", out)
}

func TestOpenRouterNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newOpenRouter(srv.URL).Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
	assert.Equal(t, "openrouter api error: status 502", err.Error())
}

func TestOpenRouterNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newOpenRouter(url).Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
}

func TestOpenRouterMissingKey(t *testing.T) {
	p := NewOpenRouterProvider(OpenRouterOptions{URL: "http://127.0.0.1:1"})
	_, err := p.Stream(context.Background(), nil)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestDecodeDataLinesStopsWhenEmitDeclines(t *testing.T) {
	input := strings.Join([]string{routerLine("a"), routerLine("b"), routerLine("c")}, "\n")

	var got []string
	err := DecodeDataLines(strings.NewReader(input), func(text string) bool {
		got = append(got, text)
		return len(got) < 2
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestDecodeDataLinesHandlesCRLF(t *testing.T) {
	input := routerLine("x") + "\r\n" + routerLine("y") + "\r\n"

	var got []string
	err := DecodeDataLines(strings.NewReader(input), func(text string) bool {
		got = append(got, text)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got)
}

func TestDecodeDataLinesRejectsOverlongLine(t *testing.T) {
	input := "data: " + strings.Repeat("x", maxLineBytes+10)
	err := DecodeDataLines(strings.NewReader(input), func(string) bool { return true })
	require.Error(t, err)
}
