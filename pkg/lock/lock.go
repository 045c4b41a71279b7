// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Package lock provides an exclusive-create file lock guarding concurrent
// writers to one database root.
package lock

import (
	"errors"
	"fmt"
	"os"

	alpmerrors "github.com/archgo/alpmgo/internal/errors"
)

// ErrLocked is returned by Acquire when the lock file already exists,
// distinguishing lock contention from any other I/O failure.
var ErrLocked = errors.New("lock: database is already locked by another writer")

// Guard holds an acquired lock. Release removes the lock file; it is safe
// to call more than once and safe to call even if the process is
// unwinding from a panic, since it does nothing but unlink a path it
// already knows it created.
type Guard struct {
	path     string
	released bool
}

// Acquire exclusively creates path, the lock file itself (typically
// "<dbroot>/db.lck"). A pre-existing file returns ErrLocked wrapped in a
// *alpmerrors.UserError with ExitLock; any other failure is surfaced as a
// plain I/O error.
func Acquire(path string) (*Guard, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, alpmerrors.NewLockError(
				"database is locked",
				fmt.Sprintf("%s already exists", path),
				"wait for the other process to finish, or remove the lock file if it is stale",
				ErrLocked,
			)
		}
		return nil, fmt.Errorf("creating lock file %s: %w", path, err)
	}
	f.Close()
	return &Guard{path: path}, nil
}

// Release removes the lock file. Callers should defer Release immediately
// after a successful Acquire so the lock is dropped on every exit path,
// including a panic unwinding through the deferred call.
func (g *Guard) Release() error {
	if g.released {
		return nil
	}
	g.released = true
	if err := os.Remove(g.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing lock file %s: %w", g.path, err)
	}
	return nil
}
