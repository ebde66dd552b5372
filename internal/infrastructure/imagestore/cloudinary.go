package imagestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/restauranthub/inventory-system/internal/core/ports"
)

const defaultFolder = "restaurant_inventory"

// CloudinaryConfig holds the account credentials and target folder.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// CloudinaryStore forwards staged images to Cloudinary.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cfg CloudinaryConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	folder := cfg.Folder
	if folder == "" {
		folder = defaultFolder
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

// Save uploads the staged file and returns its HTTPS URL.
func (s *CloudinaryStore) Save(ctx context.Context, upload ports.ImageUpload) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, upload.Path, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty secure url")
	}
	return resp.SecureURL, nil
}
