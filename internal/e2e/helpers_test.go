package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"diagramd/internal/diagram"
	"diagramd/internal/events"
	"diagramd/internal/generator"
	"diagramd/internal/httpapi"
	"diagramd/internal/render"
	"diagramd/internal/session"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-image")

// modelServer mimics an OpenAI-compatible completions endpoint that echoes
// the prompt back inside a diagram, the way the fine-tuned model repeats
// its instruction before answering.
func modelServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/completions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"model offline"}}`))
			return
		}
		inner := strings.TrimSuffix(strings.TrimPrefix(req.Prompt, "[INST] "), " [/INST]")
		text := req.Prompt + " ```plantuml\n@startuml\nnote: " + inner + "\n@enduml\n```</s>"
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-e2e",
			"object":  "text_completion",
			"created": time.Now().Unix(),
			"model":   generator.DefaultModel,
			"choices": []map[string]any{{"index": 0, "text": text, "finish_reason": "stop", "logprobs": nil}},
		})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// plantumlServer answers GET /{format}/{encoded} with a PNG and counts hits.
func plantumlServer(t *testing.T, status int, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if status != http.StatusOK {
			http.Error(w, "render failure", status)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes)
	}))
	t.Cleanup(ts.Close)
	return ts
}

type stack struct {
	srv    *httptest.Server
	svc    *diagram.Service
	events *events.MemoryPublisher
}

// newStack wires the real generator, memory store, renderer and HTTP layer.
// An empty modelURL runs without a backend (demo mode).
func newStack(t *testing.T, modelURL, renderURL string) *stack {
	t.Helper()
	var adapter generator.Adapter
	if modelURL != "" {
		adapter = generator.NewOpenAIAdapter(modelURL+"/v1", "", nil)
	}
	r, err := render.New(render.Options{URL: renderURL, WorkDir: t.TempDir(), Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	pub := events.NewMemoryPublisher()
	svc, err := diagram.New(diagram.Config{
		Generator: generator.New(generator.Config{Adapter: adapter, Logger: zerolog.Nop()}),
		Store:     session.NewMemoryStore(0),
		Renderer:  r,
		Events:    pub,
		WorkDir:   t.TempDir(),
		Logger:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(func() {
		srv.Close()
		_ = svc.Close()
	})
	return &stack{srv: srv, svc: svc, events: pub}
}

func (s *stack) post(t *testing.T, path, body string, header ...string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.srv.URL+path, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, b
}
