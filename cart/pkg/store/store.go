// Package store persists per-session state. Implementations are interchangeable behind
// Repository so the state containers never know where their snapshot lives.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound reports that nothing has been saved yet for the key.
var ErrNotFound = errors.New("state not found")

type Repository[T any] interface {
	Load(c context.Context) (T, error)
	Save(c context.Context, value T) error
}

const (
	KindCart      = "cart"
	KindQuotation = "quotation"
)

func SessionKey(kind string, sessionID string) string {
	return fmt.Sprintf("storefront:%s:%s", kind, sessionID)
}
