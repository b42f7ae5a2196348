package voice

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryMirror uploads voice notes to Cloudinary so external channels
// can fetch them.
type CloudinaryMirror struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryMirror builds a mirror from a cloudinary:// URL.
func NewCloudinaryMirror(cloudinaryURL string) (*CloudinaryMirror, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryMirror{cld: cld}, nil
}

// Upload stores the file as a video resource, which is how Cloudinary
// classifies audio.
func (m *CloudinaryMirror) Upload(ctx context.Context, path, folder string) (string, string, error) {
	result, err := m.cld.Upload.Upload(ctx, path, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "video",
	})
	if err != nil {
		return "", "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if result.PublicID == "" {
		return "", "", fmt.Errorf("cloudinary returned no public ID")
	}
	return result.SecureURL, result.PublicID, nil
}

func (m *CloudinaryMirror) Delete(ctx context.Context, publicID string) error {
	_, err := m.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID, ResourceType: "video"})
	if err != nil {
		return fmt.Errorf("cloudinary delete failed: %w", err)
	}
	return nil
}
