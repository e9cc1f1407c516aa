// Package media stores uploaded avatar files and resolves them to public
// URLs. The storage policy (local disk vs. object storage) is a deployment
// decision; services only see the AvatarStore interface.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AvatarStore persists an uploaded avatar and returns a publicly resolvable
// URL or path for it.
type AvatarStore interface {
	Save(userID, filename string, r io.Reader) (string, error)
}

// LocalStore writes avatars under a media root on local disk and serves them
// from the /media/ static mount.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at root, creating it if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Save stores the upload as <root>/<userID>/avatar<ext> and returns the
// /media/ path it will be served from. A repeated upload for the same user
// and extension overwrites the previous avatar.
func (s *LocalStore) Save(userID, filename string, r io.Reader) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}

	userDir := filepath.Join(s.root, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create avatar directory: %w", err)
	}

	destination := filepath.Join(userDir, "avatar"+ext)
	f, err := os.Create(destination)
	if err != nil {
		return "", fmt.Errorf("failed to create avatar file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}
	return "/media/" + userID + "/avatar" + ext, nil
}
