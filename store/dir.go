package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arloliu/gridcodec/errs"
)

const (
	stagePrefix  = ".stage-"
	backupPrefix = ".backup-"
)

// DirBackend stores artifacts as plain files in one directory, named the way the
// simulation engine expects them.
//
// Commit stages every artifact in a temporary file, moves existing targets aside
// and renames the staged files into place. On any failure the staged files are
// removed and the previous targets are restored.
type DirBackend struct {
	root string
	perm fs.FileMode
}

// NewDirBackend creates the directory if needed.
func NewDirBackend(root string) (*DirBackend, error) {
	if root == "" {
		return nil, errors.New("dir backend: empty root")
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("dir backend: %w", err)
	}

	return &DirBackend{root: root, perm: 0o644}, nil
}

// Root returns the backing directory.
func (b *DirBackend) Root() string {
	return b.root
}

func (b *DirBackend) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(b.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errs.ErrArtifactNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("dir backend: %w", err)
	}

	return data, nil
}

type dirMove struct {
	staged string
	target string
	backup string // empty when the target did not exist
	moved  bool
}

func (b *DirBackend) Commit(ctx context.Context, artifacts []Artifact) (err error) {
	if err := validateArtifacts(artifacts); err != nil {
		return err
	}

	moves := make([]*dirMove, 0, len(artifacts))
	defer func() {
		if err != nil {
			b.rollback(moves)
		}
	}()

	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return err
		}

		staged, err := b.stage(a)
		if err != nil {
			return err
		}
		moves = append(moves, &dirMove{staged: staged, target: filepath.Join(b.root, a.Name)})
	}

	for _, m := range moves {
		if _, statErr := os.Lstat(m.target); statErr == nil {
			m.backup = filepath.Join(b.root, backupPrefix+filepath.Base(m.target))
			if err := os.Rename(m.target, m.backup); err != nil {
				m.backup = ""
				return fmt.Errorf("dir backend: move aside %s: %w", m.target, err)
			}
		}

		if err := os.Rename(m.staged, m.target); err != nil {
			return fmt.Errorf("dir backend: install %s: %w", m.target, err)
		}
		m.moved = true
	}

	for _, m := range moves {
		if m.backup != "" {
			_ = os.Remove(m.backup)
		}
	}

	return nil
}

func (b *DirBackend) stage(a Artifact) (string, error) {
	f, err := os.CreateTemp(b.root, stagePrefix+a.Name+"-*")
	if err != nil {
		return "", fmt.Errorf("dir backend: stage %s: %w", a.Name, err)
	}

	name := f.Name()
	if _, err := f.Write(a.Data); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("dir backend: stage %s: %w", a.Name, err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("dir backend: stage %s: %w", a.Name, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("dir backend: stage %s: %w", a.Name, err)
	}

	if err := os.Chmod(name, b.perm); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("dir backend: stage %s: %w", a.Name, err)
	}

	return name, nil
}

// rollback undoes a partial commit in reverse order.
func (b *DirBackend) rollback(moves []*dirMove) {
	for i := len(moves) - 1; i >= 0; i-- {
		m := moves[i]
		if m.moved {
			_ = os.Remove(m.target)
		} else {
			_ = os.Remove(m.staged)
		}

		if m.backup != "" {
			_ = os.Rename(m.backup, m.target)
		}
	}
}

// List returns the committed artifact names, skipping staging leftovers and
// subdirectories.
func (b *DirBackend) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(b.root)
	if err != nil {
		return nil, fmt.Errorf("dir backend: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, stagePrefix) || strings.HasPrefix(name, backupPrefix) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	return names, nil
}
