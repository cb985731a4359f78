// Package lockedfile provides an inter-process mutex backed by an advisory
// lock on a file, so concurrent invocations never build the same target
// directory at once.
package lockedfile

import (
	"fmt"
	"os"
)

// A Mutex provides mutual exclusion within and across processes by locking
// a well-known file. The zero Mutex is not valid; use MutexAt.
type Mutex struct {
	path string
}

// MutexAt returns a new Mutex with the given file as its lock. The file is
// created if it does not exist.
func MutexAt(path string) *Mutex {
	if path == "" {
		panic("lockedfile.MutexAt: path must be non-empty")
	}
	return &Mutex{path: path}
}

func (mu *Mutex) String() string {
	return fmt.Sprintf("lockedfile.Mutex(%s)", mu.path)
}

// Lock blocks until the lock is held and returns the function that
// releases it.
func (mu *Mutex) Lock() (func(), error) {
	f, err := os.OpenFile(mu.path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, err
	}
	if err := lock(f); err != nil {
		f.Close()
		return nil, &os.PathError{Op: "lock", Path: mu.path, Err: err}
	}
	return func() {
		unlock(f)
		f.Close()
	}, nil
}
