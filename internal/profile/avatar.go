package profile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowed avatar content types mapped to file extensions.
var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AvatarStore writes uploaded avatar images to disk and hands back the
// URL path they are served from.
type AvatarStore struct {
	dir string
}

// NewAvatarStore creates the avatar directory if needed.
func NewAvatarStore(dir string) (*AvatarStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}
	return &AvatarStore{dir: dir}, nil
}

// Dir returns the directory avatars are stored in, for static serving.
func (s *AvatarStore) Dir() string {
	return s.dir
}

// Save stores an uploaded image under a random name and returns its
// serving path.
func (s *AvatarStore) Save(r io.Reader, contentType string) (string, error) {
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported avatar content type %q", contentType)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create avatar file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}

	return "/avatars/" + name, nil
}

// Remove deletes a stored avatar by its serving path. Unknown paths
// are ignored.
func (s *AvatarStore) Remove(servingPath string) error {
	name := strings.TrimPrefix(servingPath, "/avatars/")
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove avatar: %w", err)
	}
	return nil
}
