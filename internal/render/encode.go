package render

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"strings"
)

// PlantUML uses its own base64 alphabet for text embedded in server URLs.
const plantumlAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

var plantumlEncoding = base64.NewEncoding(plantumlAlphabet).WithPadding(base64.NoPadding)

// Encode compresses markup with raw deflate and encodes it for a PlantUML
// server URL.
func Encode(markup string) (string, error) {
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := zw.Write([]byte(markup)); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return encode64(buf.Bytes()), nil
}

// encode64 emits four characters per three input bytes; a short final group
// is zero filled, which the alphabet maps to '0'.
func encode64(data []byte) string {
	s := plantumlEncoding.EncodeToString(data)
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("0", 4-rem)
	}
	return s
}
