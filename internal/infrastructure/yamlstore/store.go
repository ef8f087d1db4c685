// Package yamlstore persists aliases as a flat YAML mapping in a single file.
package yamlstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/addressbook/internal/alias"
	"github.com/zjrosen/addressbook/internal/fileutil"
)

// Store reads and writes aliases in one YAML file.
type Store struct {
	path string
}

// New returns a Store backed by the file at path. The file is not touched
// until the first read or save.
func New(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Ensure Store implements alias.Store.
var _ alias.Store = (*Store)(nil)

// ReadAliases parses the alias file. A missing or empty file yields an empty mapping.
func (s *Store) ReadAliases() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading aliases: %w", err)
	}

	aliases := make(map[string]string)
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("parsing aliases %s: %w", s.path, err)
	}
	return aliases, nil
}

// SaveAliases writes aliases atomically (write to temp, then rename).
func (s *Store) SaveAliases(aliases map[string]string) error {
	if err := fileutil.WriteYAML(s.path, aliases); err != nil {
		return fmt.Errorf("saving aliases: %w", err)
	}
	return nil
}
