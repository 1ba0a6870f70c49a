// Package storage keeps uploaded files (school logos) on Aliyun OSS or on local disk.
// Replaced files are moved under trashPrefix and purged by the trash reaper.
package storage

import (
	"context"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/helpers/reporter"
)

const trashPrefix = "trash/"

type FileStore interface {
	// Put stores r under key and returns its public URL.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	// Trash moves the object behind publicURL to the trash area. Unknown URLs are ignored.
	Trash(ctx context.Context, publicURL string) error
	// PurgeTrash deletes trashed objects last modified before cutoff.
	PurgeTrash(ctx context.Context, cutoff time.Time) (int, error)
}

// FromEnv prefers OSS when ALI_OSS_* is complete, local disk otherwise.
func FromEnv() FileStore {
	if s, err := NewOSSStoreFromEnv(configs.GetEnv("ALI_OSS_PREFIX", "schoolku")); err == nil {
		log.Printf("[STORAGE] Aliyun OSS bucket=%s", s.BucketName)
		return s
	} else {
		log.Printf("[STORAGE] %v, utilisation du disque local %s", err, configs.UploadDir)
	}
	return NewLocalStore(configs.UploadDir, "/uploads")
}

// joinKey builds "a/b/c" from non-empty trimmed parts.
func joinKey(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/ "); p != "" {
			clean = append(clean, p)
		}
	}
	return path.Join(clean...)
}

// TrashReplaced moves a replaced file to the trash. Failures are logged and
// reported; the replacement stands.
func TrashReplaced(ctx context.Context, store FileStore, publicURL string) {
	if err := store.Trash(ctx, publicURL); err != nil {
		log.Printf("[WARN] storage: trash %s: %v", publicURL, err)
		reporter.Default.Error(err, map[string]interface{}{"op": "trash_replaced", "url": publicURL})
	}
}
