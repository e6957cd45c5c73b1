// Package storage uploads listing images to Cloudinary and hands back
// public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"farmconnect/pkg/config"
)

type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}

type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryUploader{client: client, folder: cfg.Folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	publicID := uuid.NewString()
	if ext := strings.TrimPrefix(filepath.Ext(filename), "."); ext != "" {
		publicID = publicID + "-" + ext
	}

	result, err := u.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   u.folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return result.SecureURL, nil
}
