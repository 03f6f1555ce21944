package render

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Kroki renders through a Kroki server's POST /plantuml/{format} API.
type Kroki struct {
	client
}

func (k *Kroki) Render(ctx context.Context, markupPath string, format Format) (r Rendering, err error) {
	start := time.Now()
	defer func() { observe(k.kind, format, start, err) }()

	markup, err := readMarkup(markupPath)
	if err != nil {
		return Rendering{}, err
	}
	// Kroki has no img alias.
	out := format
	if out == FormatImg {
		out = FormatPNG
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.url+"/plantuml/"+string(out), strings.NewReader(markup))
	if err != nil {
		return Rendering{}, err
	}
	req.Header.Set("Content-Type", "text/plain")
	k.log.Debug().Str("renderer", k.kind).Str("format", string(out)).Msg("render request")
	return k.do(req, format)
}
