package render

import (
	"fmt"
	"strings"
)

// Format is a rendering output format.
type Format string

const (
	FormatPNG Format = "png"
	// FormatImg is the PlantUML server's alias for png.
	FormatImg Format = "img"
	FormatSVG Format = "svg"
	FormatTXT Format = "txt"
)

// DefaultFormat is used when a request names no format.
const DefaultFormat = FormatPNG

// FormatError reports an unsupported format.
type FormatError struct{ Value string }

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported format %q (want png, img, svg or txt)", e.Value)
}

// StatusCode implements the HTTP error contract.
func (e *FormatError) StatusCode() int { return 400 }

// ParseFormat normalizes s; empty selects DefaultFormat.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return DefaultFormat, nil
	case FormatPNG, FormatImg, FormatSVG, FormatTXT:
		return f, nil
	}
	return "", &FormatError{Value: s}
}

// ContentType returns the MIME type of rendered output.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatTXT:
		return "text/plain; charset=utf-8"
	default:
		return "image/png"
	}
}

// Ext returns the file extension used for rendered output.
func (f Format) Ext() string {
	switch f {
	case FormatSVG:
		return ".svg"
	case FormatTXT:
		return ".txt"
	default:
		return ".png"
	}
}
