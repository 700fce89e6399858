package store

import (
	"context"
	"fmt"
	"strings"
)

// Artifact is one named byte blob of a commit.
type Artifact struct {
	Name string
	Data []byte
}

// Backend persists artifacts.
//
// Commit is all-or-nothing: after an error the backend holds exactly what it
// held before the call. Get returns errs.ErrArtifactNotFound for a name that was
// never committed. Implementations must be safe for concurrent Get calls.
type Backend interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Commit(ctx context.Context, artifacts []Artifact) error
	List(ctx context.Context) ([]string, error)
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("invalid artifact name %q", name)
	}

	return nil
}

func validateArtifacts(artifacts []Artifact) error {
	seen := make(map[string]struct{}, len(artifacts))
	for _, a := range artifacts {
		if err := validateName(a.Name); err != nil {
			return err
		}

		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("artifact %q appears twice in one commit", a.Name)
		}
		seen[a.Name] = struct{}{}
	}

	return nil
}
