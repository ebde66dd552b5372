package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/restauranthub/inventory-system/internal/core/domain"
	"github.com/restauranthub/inventory-system/internal/core/ports"
)

const (
	imageField      = "image"
	multipartMemory = 32 << 20
)

func isForm(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEMultipartForm) || strings.HasPrefix(ct, echo.MIMEApplicationForm)
}

func parseForm(c echo.Context) error {
	req := c.Request()
	var err error
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		err = req.ParseMultipartForm(multipartMemory)
	} else {
		err = req.ParseForm()
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload").SetInternal(err)
	}
	return nil
}

// formString returns nil when the field was not sent at all. parseForm must
// have run first.
func formString(c echo.Context, name string) *string {
	values, ok := c.Request().Form[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func formFloat(c echo.Context, name string) (*float64, error) {
	raw := formString(c, name)
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrValidation, name)
	}
	return &v, nil
}

// stageImage copies the optional multipart image into a temp file. The
// returned cleanup removes it and is safe to call when nothing was staged.
func stageImage(c echo.Context, log zerolog.Logger) (*ports.ImageUpload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, noop, nil
	}

	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, fmt.Errorf("%w: could not read image upload", domain.ErrValidation)
	}

	contentType := fh.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, noop, fmt.Errorf("%w: image must be an image file", domain.ErrValidation)
	}

	path, err := copyToTemp(fh)
	if err != nil {
		return nil, noop, err
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("failed to remove staged upload")
		}
	}

	return &ports.ImageUpload{
		Filename:    filepath.Base(fh.Filename),
		ContentType: contentType,
		Path:        path,
		Size:        fh.Size,
	}, cleanup, nil
}

func copyToTemp(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "inventory-upload-*"+strings.ToLower(filepath.Ext(fh.Filename)))
	if err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("stage upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("stage upload: %w", err)
	}
	return dst.Name(), nil
}
