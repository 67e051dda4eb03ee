// Package images wraps the Cloudinary image-hosting API: uploads, deletes,
// derived-URL construction and search. Every operation is a stateless
// request/response wrapper; there is no retry and no caching. URL
// construction never touches the network.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/admin/search"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// ErrUnavailable is returned when the Cloudinary credentials are not configured.
var ErrUnavailable = errors.New("image service is not configured")

// Config carries the Cloudinary credentials for NewService.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Service is the image-hosting adapter.
type Service struct {
	cld    *cloudinary.Cloudinary
	folder string
	log    zerolog.Logger
}

// NewService builds the image service. Missing credentials leave the service
// unavailable rather than failing construction.
func NewService(cfg Config, log zerolog.Logger) *Service {
	s := &Service{folder: cfg.Folder, log: log}
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		log.Warn().Msg("Cloudinary credentials not set, image hosting disabled")
		return s
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize Cloudinary client")
		return s
	}
	s.cld = cld
	return s
}

// Available reports whether the provider is configured.
func (s *Service) Available() bool { return s.cld != nil }

// UploadResult describes a stored image.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Size     int    `json:"size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

func (s *Service) upload(ctx context.Context, source interface{}, publicID string) (*UploadResult, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	res, err := s.cld.Upload.Upload(ctx, source, uploader.UploadParams{
		PublicID: publicID,
		Folder:   s.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	return &UploadResult{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Format:   res.Format,
		Size:     res.Bytes,
		Width:    res.Width,
		Height:   res.Height,
	}, nil
}

// UploadReader uploads image bytes from a reader.
func (s *Service) UploadReader(ctx context.Context, r io.Reader, publicID string) (*UploadResult, error) {
	return s.upload(ctx, r, publicID)
}

// UploadFile uploads an image from a local file path.
func (s *Service) UploadFile(ctx context.Context, path, publicID string) (*UploadResult, error) {
	return s.upload(ctx, path, publicID)
}

// UploadURL tells the provider to fetch and store an image from a remote URL.
func (s *Service) UploadURL(ctx context.Context, url, publicID string) (*UploadResult, error) {
	return s.upload(ctx, url, publicID)
}

// Delete removes a stored image.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	if !s.Available() {
		return ErrUnavailable
	}
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("failed to delete image %s: %s", publicID, res.Result)
	}
	return nil
}

// DeleteBatch removes several stored images in one request.
func (s *Service) DeleteBatch(ctx context.Context, publicIDs []string) error {
	if !s.Available() {
		return ErrUnavailable
	}
	if len(publicIDs) == 0 {
		return nil
	}
	if _, err := s.cld.Admin.DeleteAssets(ctx, admin.DeleteAssetsParams{PublicIDs: publicIDs}); err != nil {
		return fmt.Errorf("failed to delete images: %w", err)
	}
	return nil
}

// Transform describes a derived-image transformation. Zero fields are omitted
// from the generated URL.
type Transform struct {
	Width   int
	Height  int
	Crop    string // e.g. "fill", "fit", "thumb"
	Gravity string // e.g. "auto", "face"
	Quality string // e.g. "auto", "80"
	Format  string // e.g. "auto", "webp"
}

// encode renders the transformation in Cloudinary's URL syntax, e.g.
// "c_fill,g_auto,h_150,w_150".
func (t Transform) encode() string {
	var parts []string
	if t.Crop != "" {
		parts = append(parts, "c_"+t.Crop)
	}
	if t.Format != "" {
		parts = append(parts, "f_"+t.Format)
	}
	if t.Gravity != "" {
		parts = append(parts, "g_"+t.Gravity)
	}
	if t.Height > 0 {
		parts = append(parts, fmt.Sprintf("h_%d", t.Height))
	}
	if t.Quality != "" {
		parts = append(parts, "q_"+t.Quality)
	}
	if t.Width > 0 {
		parts = append(parts, fmt.Sprintf("w_%d", t.Width))
	}
	return strings.Join(parts, ",")
}

// URL builds a delivery URL for a stored image with the given transformation.
// This is pure URL construction; no network round trip is made.
func (s *Service) URL(publicID string, t Transform) (string, error) {
	if !s.Available() {
		return "", ErrUnavailable
	}
	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("failed to build URL for %s: %w", publicID, err)
	}
	img.Transformation = t.encode()
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("failed to build URL for %s: %w", publicID, err)
	}
	return url, nil
}

// ThumbnailURL builds a square thumbnail URL.
func (s *Service) ThumbnailURL(publicID string, size int) (string, error) {
	return s.URL(publicID, Transform{Width: size, Height: size, Crop: "thumb", Gravity: "auto", Format: "auto", Quality: "auto"})
}

// ResponsiveURLs builds one URL per requested width, preserving aspect ratio.
func (s *Service) ResponsiveURLs(publicID string, widths []int) (map[int]string, error) {
	urls := make(map[int]string, len(widths))
	for _, w := range widths {
		url, err := s.URL(publicID, Transform{Width: w, Crop: "fit", Format: "auto", Quality: "auto"})
		if err != nil {
			return nil, err
		}
		urls[w] = url
	}
	return urls, nil
}

// GalleryURLs builds the standard product-gallery variants.
func (s *Service) GalleryURLs(publicID string) (map[string]string, error) {
	variants := map[string]Transform{
		"thumb":  {Width: 150, Height: 150, Crop: "thumb", Gravity: "auto", Format: "auto", Quality: "auto"},
		"card":   {Width: 400, Height: 300, Crop: "fill", Gravity: "auto", Format: "auto", Quality: "auto"},
		"detail": {Width: 1200, Crop: "fit", Format: "auto", Quality: "auto"},
	}
	urls := make(map[string]string, len(variants))
	for name, t := range variants {
		url, err := s.URL(publicID, t)
		if err != nil {
			return nil, err
		}
		urls[name] = url
	}
	return urls, nil
}

// WatermarkURL builds a URL with the shop watermark overlaid.
func (s *Service) WatermarkURL(publicID, watermarkID string) (string, error) {
	if !s.Available() {
		return "", ErrUnavailable
	}
	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("failed to build URL for %s: %w", publicID, err)
	}
	// Overlay the watermark asset in the south-east corner.
	img.Transformation = fmt.Sprintf("l_%s,g_south_east,o_60,w_120", strings.ReplaceAll(watermarkID, "/", ":"))
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("failed to build URL for %s: %w", publicID, err)
	}
	return url, nil
}

// SearchAsset is one match from Search.
type SearchAsset struct {
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

// Search finds stored images matching a Cloudinary search expression,
// e.g. "folder:products AND format:png".
func (s *Service) Search(ctx context.Context, expression string, maxResults int) ([]SearchAsset, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	if maxResults <= 0 {
		maxResults = 20
	}
	res, err := s.cld.Admin.Search(ctx, search.Query{
		Expression: expression,
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("image search failed: %w", err)
	}
	assets := make([]SearchAsset, 0, len(res.Assets))
	for _, a := range res.Assets {
		assets = append(assets, SearchAsset{
			PublicID: a.PublicID,
			Format:   a.Format,
			Size:     int64(a.Bytes),
			URL:      a.SecureURL,
		})
	}
	return assets, nil
}

// Ping verifies connectivity with the provider.
func (s *Service) Ping(ctx context.Context) error {
	if !s.Available() {
		return ErrUnavailable
	}
	res, err := s.cld.Admin.Ping(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach Cloudinary: %w", err)
	}
	if res.Status != "ok" {
		return fmt.Errorf("unexpected ping status: %s", res.Status)
	}
	return nil
}
