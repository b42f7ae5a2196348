package voice

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSMirror copies voice notes to a Firebase Storage (GCS) bucket with
// public read access.
type GCSMirror struct {
	client *storage.Client
	bucket string
}

// NewGCSMirror connects with the service account file when set, otherwise
// with application default credentials.
func NewGCSMirror(ctx context.Context, bucket, credentialsFile string) (*GCSMirror, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSMirror{client: client, bucket: bucket}, nil
}

// Upload returns the public download URL and the object path, which is the
// id passed back to Delete.
func (m *GCSMirror) Upload(ctx context.Context, localPath, folder string) (string, string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	objectPath := path.Join(folder, filepath.Base(localPath))
	w := m.client.Bucket(m.bucket).Object(objectPath).NewWriter(ctx)
	w.ACL = []storage.ACLRule{{Entity: storage.AllUsers, Role: storage.RoleReader}}
	if ct, ok := allowedExtensions[filepath.Ext(localPath)]; ok {
		w.ObjectAttrs.ContentType = ct
	}

	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return "", "", fmt.Errorf("failed to copy file to storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", "", fmt.Errorf("failed to close writer: %w", err)
	}
	return m.publicURL(objectPath), objectPath, nil
}

func (m *GCSMirror) publicURL(objectPath string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media", m.bucket, url.QueryEscape(objectPath))
}

func (m *GCSMirror) Delete(ctx context.Context, objectPath string) error {
	if err := m.client.Bucket(m.bucket).Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (m *GCSMirror) Close() error {
	return m.client.Close()
}
