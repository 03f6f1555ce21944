// Package session holds the last generated markup per session key.
package session

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultKey is used by callers that never send a session id. All of them
// share one last-write-wins slot.
const DefaultKey = "default"

// ErrNotFound is returned when a session has no stored markup yet.
var ErrNotFound = errors.New("session has no generated markup")

// Entry is the stored generation result.
type Entry struct {
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	Model     string    `json:"model,omitempty"`
	Prompt    string    `json:"prompt"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a keyed, last-write-wins slot.
type Store interface {
	// Put overwrites the entry for key.
	Put(ctx context.Context, key string, e Entry) error
	// Get returns ErrNotFound when nothing was stored under key.
	Get(ctx context.Context, key string) (Entry, error)
	// Kind names the backend for /status.
	Kind() string
	Close() error
}

// NormalizeKey trims key and substitutes DefaultKey for an empty value.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return DefaultKey
	}
	return key
}
