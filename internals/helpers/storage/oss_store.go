package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"schoolku_backend/internals/configs"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type OSSStore struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string
	PublicBase string
}

func NewOSSStoreFromEnv(prefix string) (*OSSStore, error) {
	endpoint := normalizeEndpoint(configs.GetEnv("ALI_OSS_ENDPOINT"))
	ak := configs.GetEnv("ALI_OSS_ACCESS_KEY")
	sk := configs.GetEnv("ALI_OSS_SECRET_KEY")
	bucketName := configs.GetEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, errors.New("ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET incomplets")
	}

	var opts []oss.ClientOption
	if sts := configs.GetEnv("ALI_OSS_SECURITY_TOKEN"); sts != "" {
		opts = append(opts, oss.SecurityToken(sts))
	}
	client, err := oss.New(endpoint, ak, sk, opts...)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	return &OSSStore{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		Prefix:     strings.Trim(prefix, "/"),
		PublicBase: strings.TrimRight(configs.GetEnv("ALI_OSS_PUBLIC_BASE"), "/"),
	}, nil
}

func (s *OSSStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	full := joinKey(s.Prefix, key)
	err := s.Bucket.PutObject(full, r,
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	)
	if err != nil {
		return "", err
	}
	return s.publicURL(full), nil
}

func (s *OSSStore) Trash(ctx context.Context, publicURL string) error {
	key, ok := s.keyFromURL(publicURL)
	if !ok {
		return nil
	}
	dst := joinKey(s.Prefix, trashPrefix, strings.TrimPrefix(key, s.Prefix+"/"))
	if _, err := s.Bucket.CopyObject(key, dst, oss.WithContext(ctx)); err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSStore) PurgeTrash(ctx context.Context, cutoff time.Time) (int, error) {
	prefix := joinKey(s.Prefix, trashPrefix) + "/"
	marker := oss.Marker("")
	var keys []string
	for {
		lor, err := s.Bucket.ListObjects(oss.Prefix(prefix), marker, oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return 0, err
		}
		for _, obj := range lor.Objects {
			if obj.Key != "" && obj.LastModified.Before(cutoff) {
				keys = append(keys, obj.Key)
			}
		}
		if !lor.IsTruncated {
			break
		}
		marker = oss.Marker(lor.NextMarker)
	}

	deleted := 0
	for i := 0; i < len(keys); i += 1000 {
		end := min(i+1000, len(keys))
		batch := keys[i:end]
		if _, err := s.Bucket.DeleteObjects(batch, oss.DeleteObjectsQuiet(true), oss.WithContext(ctx)); err != nil {
			log.Printf("[OSS-REAPER] batch %d-%d: %v", i, end, err)
			continue
		}
		deleted += len(batch)
	}
	return deleted, nil
}

func (s *OSSStore) publicURL(key string) string {
	if s.PublicBase != "" {
		return s.PublicBase + "/" + key
	}
	host := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, host, key)
}

func (s *OSSStore) keyFromURL(publicURL string) (string, bool) {
	base := s.publicURL("")
	if !strings.HasPrefix(publicURL, base) {
		return "", false
	}
	key := strings.TrimPrefix(publicURL, base)
	return key, key != ""
}

func normalizeEndpoint(ep string) string {
	ep = strings.TrimSpace(ep)
	if ep == "" || strings.HasPrefix(ep, "http://") || strings.HasPrefix(ep, "https://") {
		return ep
	}
	return "https://" + ep
}

func isNotFound(err error) bool {
	var se oss.ServiceError
	if errors.As(err, &se) {
		return se.StatusCode == 404
	}
	return false
}
