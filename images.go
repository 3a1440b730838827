package portfolio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxOGWidth    = 1200
	jpegQuality   = 80
	maxSourceSize = 10 << 20 // 10MB
)

// resizeForOG decodes an image from src, downscales it to maxOGWidth if it
// is wider, and encodes it as JPEG.
func resizeForOG(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxOGWidth {
		newH := h * maxOGWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxOGWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// handleOGImage serves a post's featured image sized for social previews.
func (a *App) handleOGImage(c echo.Context) error {
	ctx := c.Request().Context()
	post := a.ContentFrom(c).Post(ctx, c.Param("slug"))
	if post == nil || post.FeaturedImage == "" {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, post.FeaturedImage, nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)
	resp, err := a.imageClient.Do(req)
	if err != nil {
		a.Logger.Warn("featured image fetch failed", "slug", post.Slug, "url", post.FeaturedImage, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "image unavailable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		a.Logger.Warn("featured image fetch failed", "slug", post.Slug, "url", post.FeaturedImage, "status", resp.StatusCode)
		return echo.NewHTTPError(http.StatusBadGateway, "image unavailable")
	}

	data, err := resizeForOG(io.LimitReader(resp.Body, maxSourceSize))
	if err != nil {
		a.Logger.Warn("featured image unreadable", "slug", post.Slug, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "image unavailable")
	}
	return c.Blob(http.StatusOK, "image/jpeg", data)
}
