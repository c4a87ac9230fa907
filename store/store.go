// Package store keeps per-session chat transcripts.
package store

import (
	"context"
	"errors"

	"github/itish2003/neuronova/models"
)

var ErrInvalidSessionID = errors.New("invalid session id")

// TranscriptStore is an append-only log of chat entries keyed by session id.
// Entries are returned in the order they were appended; a session that was
// never written to reads as an empty transcript.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID string, entries ...models.ChatEntry) error
	Entries(ctx context.Context, sessionID string) ([]models.ChatEntry, error)
}
