package zoneclient

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// TokenSource yields the bearer token of the current user. An empty token
// sends the request unauthenticated.
type TokenSource interface {
	Token() (string, error)
}

type StaticToken string

func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

// FileTokenStore keeps the token in a file readable only by the owner.
type FileTokenStore struct {
	Path string
}

func (s FileTokenStore) Token() (string, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(strings.TrimSpace(token)+"\n"), 0o600)
}

func (s FileTokenStore) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
