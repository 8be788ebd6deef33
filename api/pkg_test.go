package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hzhang91/docchat/config"
	"github.com/hzhang91/docchat/llm"
	"github.com/hzhang91/docchat/memory"
	"github.com/hzhang91/docchat/policy"
	"github.com/hzhang91/docchat/tests/helpers"
)

// fakeProvider serves a fixed completion and counts calls.
func fakeProvider(t *testing.T, answer string, calls *int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			*calls++
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"c1","object":"chat.completion","created":1,"model":"test-model","choices":[{"index":0,"message":{"role":"assistant","content":%q},"finish_reason":"stop"}]}`, answer)
	}))
	t.Cleanup(server.Close)
	return server
}

// failingProvider always returns an upstream error.
func failingProvider(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"error":{"message":"upstream down","type":"upstream_error"}}`)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestHandler(t *testing.T, providerURL string) *Handler {
	t.Helper()

	cfg := &config.Config{
		ModelName:         "test-model",
		Temperature:       0.5,
		MaxContextLength:  3000,
		ContextMessages:   10,
		UploadMaxSize:     1 << 20,
		AllowedExtensions: []string{"txt", "pdf"},
	}

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}

	logger := zap.NewNop()
	mem := memory.NewService(helpers.NewTestSQLiteStore(t), logger)
	client := llm.NewClient(providerURL, "", cfg.ModelName, cfg.Temperature, time.Second)

	return NewHandler(mem, client, engine, cfg, logger)
}
