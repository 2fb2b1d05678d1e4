package cloudinary

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client uploads merchant logo images and builds optimized delivery URLs.
type Client interface {
	UploadLogo(ctx context.Context, file io.Reader, slug string) (url string, err error)
}

// Logo delivery params. Logos render small in merchant cards, so they are
// eagerly transformed at upload time.
const (
	logoWidth = 400
	logoEager = "q_auto,f_auto,w_400,c_fit"
)

var eagerAsyncFalse = false

// BuildLogoURL returns a transformation URL for an already-uploaded public id.
func BuildLogoURL(cloudName, publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_fit/%s",
		cloudName, logoWidth, publicID)
}

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

func (c *clientImpl) UploadLogo(ctx context.Context, file io.Reader, slug string) (string, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     "merchants",
		PublicID:   "logo_" + slug,
		Eager:      logoEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", err
	}
	if len(result.Eager) > 0 {
		return result.Eager[0].SecureURL, nil
	}
	return BuildLogoURL(c.cloudName, result.PublicID), nil
}

// NewClientFromParams builds a Client from Cloudinary credentials.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{cloudName: cloudName, uploader: up}, nil
}
