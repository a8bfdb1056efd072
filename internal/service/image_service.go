package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"even/internal/config"
	"even/internal/models"
	"even/internal/storage"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageMaxUploadSizeMB = 5
	DefaultImageMaxWidth        = 1600
	WebPQuality                 = 80
)

type UploadImageInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UploadResult is the public location of a stored image.
type UploadResult struct {
	ImageURL string `json:"imageUrl"`
}

// ImageService normalizes uploads to WebP and hands them to a Store.
type ImageService struct {
	store              storage.Store
	maxUploadSizeBytes int64
	maxWidth           int
}

func NewImageService(store storage.Store, cfg *config.Config) *ImageService {
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB
	maxWidth := DefaultImageMaxWidth
	if cfg != nil {
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
		if cfg.ImageMaxWidth > 0 {
			maxWidth = cfg.ImageMaxWidth
		}
	}
	return &ImageService{
		store:              store,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
		maxWidth:           maxWidth,
	}
}

// MaxUploadBytes is the largest accepted upload.
func (s *ImageService) MaxUploadBytes() int64 {
	return s.maxUploadSizeBytes
}

func (s *ImageService) Upload(ctx context.Context, actor Actor, in UploadImageInput) (*UploadResult, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No image file provided")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, decodedFormatToMime(format)) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	encoded, err := encodeWebP(resizeToWidth(decoded, s.maxWidth), WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	key := uuid.NewString() + ".webp"
	url, err := s.store.Put(ctx, key, encoded, "image/webp")
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	slog.InfoContext(ctx, "image uploaded",
		slog.String("key", key),
		slog.String("filename", in.Filename),
		slog.Int("bytes", len(encoded)))
	return &UploadResult{ImageURL: url}, nil
}

// resizeToWidth scales src down to maxWidth, keeping its aspect ratio.
// Narrower images are returned as-is.
func resizeToWidth(src image.Image, maxWidth int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 || w <= maxWidth {
		return src
	}

	newW := maxWidth
	newH := int(float64(h) * float64(maxWidth) / float64(w))
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}
