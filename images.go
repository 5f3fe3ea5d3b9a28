package folio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/eringen/folio/cms"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/views"
)

const (
	maxImageWidth = 2400
	jpegQuality   = 90
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// scaleToWidth resizes img to width, keeping its aspect ratio. Images
// already at most width wide are returned unchanged.
func scaleToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if width <= 0 || w <= width {
		return img
	}
	newH := max(1, h*width/w)
	dst := image.NewRGBA(image.Rect(0, 0, width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// processImage decodes an upload, caps it at maxImageWidth, and encodes it
// as JPEG under a unique name.
func processImage(src io.Reader, originalName string) (Upload, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Upload{}, nil, fmt.Errorf("decode image: %w", err)
	}
	img = scaleToWidth(img, maxImageWidth)
	data, err := encodeJPEG(img, jpegQuality)
	if err != nil {
		return Upload{}, nil, err
	}
	bounds := img.Bounds()
	return Upload{
		Filename:     uploadFilename(originalName),
		OriginalName: originalName,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		Size:         len(data),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, data, nil
}

// uploadFilename derives a URL-safe, collision-free file name.
func uploadFilename(name string) string {
	base := Slugify(strings.TrimSuffix(name, filepath.Ext(name)))
	if base == "" {
		base = "image"
	}
	return base + "-" + uuid.NewString()[:8] + ".jpg"
}

func (a *App) uploadsDir() string {
	return filepath.Join(a.Config.StaticDir, uploadsSubdir)
}

func (a *App) handleImageUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	dir := a.uploadsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, img.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if err := a.Store.SaveImage(c.Request().Context(), img); err != nil {
		return err
	}
	a.Logger.Info("image uploaded", zap.String("file", img.Filename), zap.Int("bytes", img.Size))

	return a.renderImageList(c)
}

func (a *App) handleImageDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	filename := c.Param("filename")
	if _, ok := content.ParseAsset(content.LocalPrefix + filename); !ok {
		return c.String(http.StatusBadRequest, "Invalid filename")
	}

	_ = os.Remove(filepath.Join(a.uploadsDir(), filename)) // already gone is fine

	if err := a.Store.DeleteImage(c.Request().Context(), filename); err != nil {
		return err
	}

	return a.renderImageList(c)
}

func (a *App) handleImageList(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.renderImageList(c)
}

func (a *App) renderImageList(c echo.Context) error {
	uploads, err := a.Store.ListImages(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]views.Upload, len(uploads))
	for i, u := range uploads {
		ref := u.AssetRef()
		url, _ := a.Resolver.URL(content.Image{AssetRef: ref}, thumbTransform)
		out[i] = views.Upload{
			Filename:     u.Filename,
			OriginalName: u.OriginalName,
			Ref:          ref,
			URL:          url,
			Width:        u.Width,
			Height:       u.Height,
			Size:         u.Size,
			UploadedAt:   u.UploadedAt,
		}
	}
	return Render(c, a.Views.AdminImages(a.adminPage(c), out))
}

// queryInt parses an integer query parameter clamped to [lo, hi]. Missing
// or malformed values yield def.
func queryInt(c echo.Context, name string, def, lo, hi int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return min(max(v, lo), hi)
}

// handleAsset serves an upload, resized to ?w= and re-encoded at ?q=.
// Concurrent requests for the same variant share one resize.
func (a *App) handleAsset(c echo.Context) error {
	file := c.Param("file")
	if _, ok := content.ParseAsset(content.LocalPrefix + file); !ok {
		return echo.ErrNotFound
	}
	path := filepath.Join(a.uploadsDir(), file)
	width := queryInt(c, "w", 0, 1, maxImageWidth)
	quality := queryInt(c, "q", cms.DefaultQuality, 1, 100)
	if c.QueryParam("w") == "" && c.QueryParam("q") == "" {
		return c.File(path)
	}

	key := fmt.Sprintf("%s?w=%d&q=%d", file, width, quality)
	v, err, _ := a.resizeGroup.Do(key, func() (any, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", file, err)
		}
		return encodeJPEG(scaleToWidth(img, width), quality)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/jpeg", v.([]byte))
}
