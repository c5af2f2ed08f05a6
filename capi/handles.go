package main

import (
	"sync"
	"unsafe"
)

// handleTable maps opaque tokens handed to C onto live Go values.
//
// A token is a unique C heap address from allocToken, never a Go pointer, so
// C may keep it for as long as it likes. Looking up a token that is not in
// the table (never issued, or already released) is a caller bug and aborts.
type handleTable[T any] struct {
	name    string
	mu      sync.RWMutex
	entries map[uintptr]T
}

func newHandleTable[T any](name string) *handleTable[T] {
	return &handleTable[T]{
		name:    name,
		entries: make(map[uintptr]T),
	}
}

// insert stores v and returns its token.
func (t *handleTable[T]) insert(v T) unsafe.Pointer {
	token := allocToken()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries[uintptr(token)] = v
	return token
}

// get returns the value behind token.
func (t *handleTable[T]) get(token unsafe.Pointer) T {
	assert(token != nil, t.name+" handle is null")

	t.mu.RLock()
	v, exists := t.entries[uintptr(token)]
	t.mu.RUnlock()

	assert(exists, "unknown or released "+t.name+" handle")
	return v
}

// remove deletes token from the table, frees it and returns its value.
func (t *handleTable[T]) remove(token unsafe.Pointer) T {
	assert(token != nil, t.name+" handle is null")

	t.mu.Lock()
	v, exists := t.entries[uintptr(token)]
	delete(t.entries, uintptr(token))
	t.mu.Unlock()

	assert(exists, "unknown or released "+t.name+" handle")
	freeToken(token)
	return v
}

// len reports the number of live handles.
func (t *handleTable[T]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
