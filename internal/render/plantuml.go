package render

import (
	"context"
	"net/http"
	"time"
)

// PlantUML renders through a PlantUML server's GET /{format}/{encoded} API.
type PlantUML struct {
	client
}

func (p *PlantUML) Render(ctx context.Context, markupPath string, format Format) (r Rendering, err error) {
	start := time.Now()
	defer func() { observe(p.kind, format, start, err) }()

	markup, err := readMarkup(markupPath)
	if err != nil {
		return Rendering{}, err
	}
	encoded, err := Encode(markup)
	if err != nil {
		return Rendering{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url+"/"+string(format)+"/"+encoded, nil)
	if err != nil {
		return Rendering{}, err
	}
	p.log.Debug().Str("renderer", p.kind).Str("format", string(format)).Int("encoded_len", len(encoded)).Msg("render request")
	return p.do(req, format)
}
