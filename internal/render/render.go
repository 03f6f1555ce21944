// Package render turns PlantUML markup files into images using a remote
// rendering server.
package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"diagramd/internal/common/fsutil"
)

// Renderer kinds.
const (
	KindPlantUML = "plantuml"
	KindKroki    = "kroki"
)

// Default server URLs per kind.
const (
	DefaultPlantUMLURL = "http://www.plantuml.com/plantuml"
	DefaultKrokiURL    = "https://kroki.io"
)

const (
	maxImageBytes = 32 << 20
	maxErrorBody  = 4096
)

// Rendering is an output image written to the work directory. The caller
// owns the file and must remove it.
type Rendering struct {
	Path        string
	ContentType string
	Format      Format
	Size        int64
}

// Renderer submits a markup file to a rendering server.
type Renderer interface {
	Kind() string
	URL() string
	Render(ctx context.Context, markupPath string, format Format) (Rendering, error)
}

// Options configures New.
type Options struct {
	Kind    string
	URL     string
	WorkDir string
	Client  *http.Client
	Logger  zerolog.Logger
}

// New returns the renderer for opts.Kind (plantuml when empty).
func New(opts Options) (Renderer, error) {
	dir, err := fsutil.WorkDir(opts.WorkDir)
	if err != nil {
		return nil, err
	}
	c := client{
		http: opts.Client,
		dir:  dir,
		log:  opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 60 * time.Second}
	}
	switch strings.ToLower(strings.TrimSpace(opts.Kind)) {
	case "", KindPlantUML:
		c.kind, c.url = KindPlantUML, orDefault(opts.URL, DefaultPlantUMLURL)
		return &PlantUML{client: c}, nil
	case KindKroki:
		c.kind, c.url = KindKroki, orDefault(opts.URL, DefaultKrokiURL)
		return &Kroki{client: c}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q (want plantuml or kroki)", opts.Kind)
	}
}

func orDefault(url, def string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		return def
	}
	return url
}

// client holds what both server flavors share.
type client struct {
	kind string
	url  string
	http *http.Client
	dir  string
	log  zerolog.Logger
}

func (c *client) Kind() string { return c.kind }

func (c *client) URL() string { return c.url }

// do sends req and writes a 2xx body to a new output file.
func (c *client) do(req *http.Request, format Format) (Rendering, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return Rendering{}, &UnreachableError{Renderer: c.kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Rendering{}, &UpstreamError{
			Renderer: c.kind,
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(excerpt)),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return Rendering{}, &UnreachableError{Renderer: c.kind, Err: err}
	}
	if len(data) > maxImageBytes {
		return Rendering{}, fmt.Errorf("%s: rendered image exceeds %d bytes", c.kind, maxImageBytes)
	}
	if len(data) == 0 {
		return Rendering{}, &UpstreamError{Renderer: c.kind, Status: resp.StatusCode, Body: "empty body"}
	}

	path, err := fsutil.WriteUnique(c.dir, "diagram", format.Ext(), data)
	if err != nil {
		return Rendering{}, fmt.Errorf("write rendered image: %w", err)
	}
	ct := format.ContentType()
	if h := resp.Header.Get("Content-Type"); h != "" && format != FormatTXT {
		ct = h
	}
	return Rendering{Path: path, ContentType: ct, Format: format, Size: int64(len(data))}, nil
}

func readMarkup(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read markup: %w", err)
	}
	return string(b), nil
}
