package images

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformEncode(t *testing.T) {
	tests := []struct {
		name string
		in   Transform
		want string
	}{
		{"empty", Transform{}, ""},
		{"square thumb", Transform{Width: 150, Height: 150, Crop: "thumb", Gravity: "auto"}, "c_thumb,g_auto,h_150,w_150"},
		{"width only", Transform{Width: 800, Crop: "fit"}, "c_fit,w_800"},
		{"format and quality", Transform{Width: 400, Format: "auto", Quality: "auto"}, "f_auto,q_auto,w_400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.encode())
		})
	}
}

func TestUnconfiguredServiceIsUnavailable(t *testing.T) {
	svc := NewService(Config{}, zerolog.Nop())
	require.False(t, svc.Available())
	ctx := context.Background()

	_, err := svc.UploadFile(ctx, "product.png", "p-1")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = svc.UploadURL(ctx, "https://example.com/a.png", "p-2")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, svc.Delete(ctx, "p-1"), ErrUnavailable)
	assert.ErrorIs(t, svc.DeleteBatch(ctx, []string{"p-1"}), ErrUnavailable)
	_, err = svc.URL("p-1", Transform{Width: 100})
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = svc.Search(ctx, "folder:products", 10)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, svc.Ping(ctx), ErrUnavailable)
}

func TestURLConstruction(t *testing.T) {
	// URL building is offline, so a service with dummy credentials works.
	svc := NewService(Config{CloudName: "demo", APIKey: "key", APISecret: "secret"}, zerolog.Nop())
	require.True(t, svc.Available())

	url, err := svc.URL("products/charger", Transform{Width: 300, Height: 300, Crop: "fill"})
	require.NoError(t, err)
	assert.Contains(t, url, "c_fill,h_300,w_300")
	assert.Contains(t, url, "products/charger")

	thumb, err := svc.ThumbnailURL("products/charger", 150)
	require.NoError(t, err)
	assert.Contains(t, thumb, "h_150")
	assert.Contains(t, thumb, "w_150")
}

func TestResponsiveURLs(t *testing.T) {
	svc := NewService(Config{CloudName: "demo", APIKey: "key", APISecret: "secret"}, zerolog.Nop())

	urls, err := svc.ResponsiveURLs("products/charger", []int{320, 768, 1280})
	require.NoError(t, err)
	require.Len(t, urls, 3)
	assert.Contains(t, urls[320], "w_320")
	assert.Contains(t, urls[768], "w_768")
	assert.Contains(t, urls[1280], "w_1280")
}

func TestGalleryURLs(t *testing.T) {
	svc := NewService(Config{CloudName: "demo", APIKey: "key", APISecret: "secret"}, zerolog.Nop())

	urls, err := svc.GalleryURLs("products/charger")
	require.NoError(t, err)
	assert.Contains(t, urls, "thumb")
	assert.Contains(t, urls, "card")
	assert.Contains(t, urls, "detail")
}
