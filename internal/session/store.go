// Package session stores per-record edit state between the requests of
// one admin editing session: the form draft plus the tracker state
// (paid months, penalty fees, owner book) that is never persisted to
// the remote API.
package session

import (
	"context"
	"errors"

	"showroom/internal/core"
)

// ErrNotFound means no edit session exists for the record; the caller
// starts one by loading the record from the API.
var ErrNotFound = errors.New("session: not found")

// Store keeps edit sessions keyed by record id. Implementations are
// expected to expire sessions after a TTL: navigating away and coming
// back later starts a fresh load.
type Store interface {
	Get(ctx context.Context, id string) (core.EditState, error)
	Put(ctx context.Context, id string, state core.EditState) error
	Delete(ctx context.Context, id string) error
}
