package config

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name, file, body, want string
	}{
		{"yaml syntax", "bad.yaml", "addr: :5000\n: broken\n", "parse"},
		{"json syntax", "bad.json", `{ "addr": ":5000", "backend": }`, "parse"},
		{"toml syntax", "bad.toml", "addr=:5000\nbackend\n", "parse"},
		{"bad duration", "bad.yaml", "session_ttl: forever\n", "invalid duration"},
		{"bad duration toml", "bad.toml", "render_timeout = \"soon\"\n", "invalid duration"},
		{"extension", "cfg.ini", "addr=:5000\n", "unsupported config extension"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := writeTempFile(t, t.TempDir(), tc.file, tc.body)
			_, err := Load(p)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) || !strings.Contains(err.Error(), tc.file) {
				t.Fatalf("error %q should mention %q and the file", err, tc.want)
			}
		})
	}
}

func TestLoad_MissingFileIsNotExist(t *testing.T) {
	_, err := Load("/definitely/not/a/real/file-12345.yaml")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}
