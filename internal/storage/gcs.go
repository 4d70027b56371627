package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// BlobStore keeps listing photos. Save returns a public URL that is stored on
// the image row; Delete accepts that same URL and is best-effort.
type BlobStore interface {
	Save(ctx context.Context, data []byte, ext string) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	if ext == "" {
		ext = ".jpg"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	objectPath := fmt.Sprintf("items/%s%s", uuid.NewString(), ext)
	token := uuid.NewString()

	obj := s.client.Bucket(s.bucket).Object(objectPath)
	w := obj.NewWriter(ctx)
	w.ContentType = contentTypeForExt(ext)
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := w.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	escapedPath := url.PathEscape(objectPath)
	publicURL := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		s.bucket, escapedPath, token)
	return publicURL, nil
}

func (s *GCSStore) Delete(ctx context.Context, publicURL string) error {
	objectPath, err := objectPathFromURL(publicURL)
	if err != nil {
		return err
	}
	err = s.client.Bucket(s.bucket).Object(objectPath).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	return err
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func objectPathFromURL(publicURL string) (string, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("invalid blob url: %w", err)
	}
	parts := strings.SplitN(u.Path, "/o/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("invalid blob url: %s", publicURL)
	}
	return url.PathUnescape(parts[1])
}

func contentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
