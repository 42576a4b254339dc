package docload

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manifest describes a document the viewer can open.
type Manifest struct {
	Title string `json:"title"`
	Path  string `json:"path"`
	// PasswordHash is a bcrypt hash. Empty means the document is not
	// protected.
	PasswordHash string `json:"password_hash,omitempty"`
}

// Protected reports whether opening the document requires a password.
func (m *Manifest) Protected() bool {
	return m.PasswordHash != ""
}

// DisplayTitle returns the title, or the file name when no title is set.
func (m *Manifest) DisplayTitle() string {
	if t := strings.TrimSpace(m.Title); t != "" {
		return t
	}
	if m.Path != "" {
		return filepath.Base(m.Path)
	}
	return "untitled"
}

// LoadManifest reads a manifest from a JSON file. Relative document paths are
// resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.Path == "" {
		return nil, fmt.Errorf("manifest %s: %w", path, ErrNoDocumentPath)
	}
	if !filepath.IsAbs(m.Path) {
		m.Path = filepath.Join(filepath.Dir(path), m.Path)
	}
	return &m, nil
}

// SetPasswordHash rewrites the password hash of the manifest at path. Other
// fields, including ones docview does not know, are written back unchanged.
func SetPasswordHash(path, hash string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}

	raw, err := json.Marshal(hash)
	if err != nil {
		return err
	}
	fields["password_hash"] = raw

	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
