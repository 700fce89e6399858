package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/arloliu/gridcodec/errs"
)

// MemoryBackend keeps artifacts in a map. It is meant for tests and in-process
// pipelines.
type MemoryBackend struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
	commits   int
}

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{artifacts: make(map[string][]byte)}
}

// Get returns a copy of the named artifact.
func (b *MemoryBackend) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.artifacts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrArtifactNotFound, name)
	}

	return slices.Clone(data), nil
}

// Commit stores copies of every artifact under one lock.
func (b *MemoryBackend) Commit(ctx context.Context, artifacts []Artifact) error {
	if err := validateArtifacts(artifacts); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, a := range artifacts {
		b.artifacts[a.Name] = slices.Clone(a.Data)
	}
	b.commits++

	return nil
}

// List returns the stored names in sorted order.
func (b *MemoryBackend) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.artifacts))
	for name := range b.artifacts {
		names = append(names, name)
	}
	slices.Sort(names)

	return names, nil
}

// Commits returns the number of successful commits.
func (b *MemoryBackend) Commits() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.commits
}

// Put overwrites a single artifact outside of a commit.
func (b *MemoryBackend) Put(name string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.artifacts[name] = slices.Clone(data)
}
