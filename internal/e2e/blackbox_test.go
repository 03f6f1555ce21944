package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"diagramd/internal/markup"
	"diagramd/pkg/types"
)

// Black-box tests build cmd/diagramd and drive the binary over HTTP. They
// shell out to the go tool and are skipped in -short mode.

func findFreePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func projectRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// <root>/internal/e2e/blackbox_test.go
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("black-box build skipped in -short mode")
	}
	bin := filepath.Join(t.TempDir(), "diagramd")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/diagramd")
	cmd.Dir = projectRoot(t)
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("go build failed: %v\n%s", err, out)
	}
	return bin
}

func startServer(t *testing.T, bin string, args ...string) string {
	t.Helper()
	port := findFreePort(t)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	args = append([]string{"serve", "--addr", fmt.Sprintf("127.0.0.1:%d", port), "--log-level", "warn"}, args...)
	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(), "DIAGRAMD_CONFIG=", "OPENAI_API_KEY=")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})
	deadline := time.Now().Add(10 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return base
			}
		}
		if time.Now().After(deadline) {
			t.Fatal("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func do(t *testing.T, method, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	plant := plantumlServer(t, http.StatusOK, nil)
	base := startServer(t, bin, "--backend", "none", "--render-url", plant.URL, "--work-dir", t.TempDir())

	resp, body := do(t, http.MethodGet, base+"/readyz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz %d %s", resp.StatusCode, body)
	}

	// Nothing generated yet.
	resp, body = do(t, http.MethodPost, base+"/convert-to-diagram", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("convert before generate: %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodPost, base+"/generate", []byte(`{"prompt":"hello"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/generate %d %s", resp.StatusCode, body)
	}
	var gen types.GenerateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		t.Fatalf("/generate json: %v body=%s", err, body)
	}
	if gen.Response != markup.Fallback {
		t.Fatalf("demo mode should serve the fallback, got %q", gen.Response)
	}

	resp, body = do(t, http.MethodPost, base+"/convert-to-diagram", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/convert-to-diagram %d %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content-type=%s", ct)
	}

	resp, body = do(t, http.MethodGet, base+"/status", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status %d %s", resp.StatusCode, body)
	}
	var st types.StatusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("/status json: %v", err)
	}
	if st.Backend != "none" || st.State != "degraded" || st.FallbacksTotal != 1 || st.RendersTotal != 1 {
		t.Fatalf("unexpected status %+v", st)
	}

	resp, body = do(t, http.MethodGet, base+"/metrics", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "diagramd_http_requests_total") {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}
}

func TestBlackbox_UnknownFormat_400(t *testing.T) {
	bin := buildBinary(t)
	plant := plantumlServer(t, http.StatusOK, nil)
	base := startServer(t, bin, "--backend", "none", "--render-url", plant.URL)

	do(t, http.MethodPost, base+"/generate", []byte(`{"prompt":"x"}`))
	resp, body := do(t, http.MethodPost, base+"/convert-to-diagram?format=gif", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d, body=%s", resp.StatusCode, body)
	}
}
