package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore writes under Dir; files are served by the app at BaseURL (e.g. /uploads).
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, _ string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	dst := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return s.BaseURL + "/" + filepath.ToSlash(key), nil
}

func (s *LocalStore) Trash(ctx context.Context, publicURL string) error {
	if !strings.HasPrefix(publicURL, s.BaseURL+"/") {
		return nil
	}
	key := strings.TrimPrefix(publicURL, s.BaseURL+"/")
	if key == "" || strings.Contains(key, "..") {
		return nil
	}
	src := filepath.Join(s.Dir, filepath.FromSlash(key))
	dst := filepath.Join(s.Dir, trashPrefix, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	err := os.Rename(src, dst)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err == nil {
		now := time.Now()
		_ = os.Chtimes(dst, now, now)
	}
	return err
}

func (s *LocalStore) PurgeTrash(ctx context.Context, cutoff time.Time) (int, error) {
	root := filepath.Join(s.Dir, trashPrefix)
	deleted := 0
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(p); err != nil {
				return err
			}
			deleted++
		}
		return ctx.Err()
	})
	return deleted, err
}
