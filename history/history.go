// Package history maintains the capped, FIFO list of generated try-on
// images kept on each user record.
package history

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/zarpado/zarpado-api/storage"
)

// Capacity is the maximum number of history entries per user.
const Capacity = 5

// ErrIndexOutOfRange is returned when an index-based removal targets a
// position outside the list.
var ErrIndexOutOfRange = errors.New("index out of range")

// UserHistories is the slice of the user store the ledger needs: read the
// current sequence and replace it atomically. Both must fail with the
// store's not-found error when the user is absent.
type UserHistories interface {
	History(ctx context.Context, userID string) ([]string, error)
	SetHistory(ctx context.Context, userID string, entries []string) error
}

// Ledger appends generated artifacts to a user's history, evicting the
// oldest entry (and best-effort deleting its file) once Capacity is
// exceeded.
type Ledger struct {
	users UserHistories
	store storage.Store
}

func NewLedger(users UserHistories, store storage.Store) *Ledger {
	return &Ledger{users: users, store: store}
}

// Record appends key to the user's history, evicting from the front when
// the list is full, and returns the updated sequence. Eviction deletes the
// evicted file from storage; a failed delete is logged and swallowed.
func (l *Ledger) Record(ctx context.Context, userID, key string) ([]string, error) {
	entries, err := l.users.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	for len(entries) >= Capacity {
		oldest := entries[0]
		entries = entries[1:]
		l.cleanup(ctx, oldest)
	}
	entries = append(entries, key)

	if err := l.users.SetHistory(ctx, userID, entries); err != nil {
		return nil, fmt.Errorf("failed to persist history: %w", err)
	}
	return entries, nil
}

// RemoveAt deletes the entry at idx, best-effort deletes its file, persists
// the shortened list and returns it. Fails with ErrIndexOutOfRange without
// touching anything when idx is outside [0, len).
func (l *Ledger) RemoveAt(ctx context.Context, userID string, idx int) ([]string, error) {
	entries, err := l.users.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, removed, err := RemoveIndex(entries, idx)
	if err != nil {
		return nil, err
	}
	l.cleanup(ctx, removed)

	if err := l.users.SetHistory(ctx, userID, entries); err != nil {
		return nil, fmt.Errorf("failed to persist history: %w", err)
	}
	return entries, nil
}

func (l *Ledger) cleanup(ctx context.Context, key string) {
	if err := l.store.Delete(ctx, key); err != nil {
		log.Printf("history: could not delete %s: %v", key, err)
	}
}

// RemoveIndex returns the list without the element at idx, plus the removed
// element. The input slice is not modified.
func RemoveIndex(list []string, idx int) ([]string, string, error) {
	if idx < 0 || idx >= len(list) {
		return nil, "", ErrIndexOutOfRange
	}
	removed := list[idx]
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:idx]...)
	out = append(out, list[idx+1:]...)
	return out, removed, nil
}
