package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists the token pair as a small JSON document, the CLI
// equivalent of the browser's two localStorage keys.
type FileStore struct {
	path string
}

type fileSlots struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStorePath places the token file under the user config directory.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "omniwatch", "tokens.json"), nil
}

func (f *FileStore) Load() (string, string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", nil
		}

		return "", "", err
	}

	var slots fileSlots
	if err := json.Unmarshal(data, &slots); err != nil {
		return "", "", err
	}

	return slots.AccessToken, slots.RefreshToken, nil
}

func (f *FileStore) Save(access, refresh string) error {
	data, err := json.Marshal(fileSlots{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}

	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
