package cms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/eringen/folio/content"
)

// DefaultQuality is the JPEG/WebP quality requested for delivered images.
const DefaultQuality = 80

// Transform is the delivery transform requested for an image.
// An empty Format asks the CDN to choose the best format.
type Transform struct {
	Width   int
	Quality int
	Format  string
}

// TransformFor returns the transform for an image's size hint.
func TransformFor(img content.Image) Transform {
	return Transform{Width: img.Size.Width(), Quality: DefaultQuality}
}

// Resolver maps asset references to delivery URLs.
type Resolver struct {
	ProjectID string
	Dataset   string
	// CDN is the image CDN origin. Defaults to https://cdn.sanity.io.
	CDN string
	// LocalBase is the path prefix of uploaded assets. Defaults to /assets/.
	LocalBase string
}

// URL returns the delivery URL of img. It reports false when the
// reference is missing or malformed, or when a CMS reference cannot be
// resolved because no project is configured.
func (r Resolver) URL(img content.Image, t Transform) (string, bool) {
	a, ok := content.ParseAsset(img.AssetRef)
	if !ok {
		return "", false
	}
	q := url.Values{}
	if t.Width > 0 {
		q.Set("w", strconv.Itoa(t.Width))
	}
	if t.Quality > 0 {
		q.Set("q", strconv.Itoa(t.Quality))
	}

	if a.Local {
		base := r.LocalBase
		if base == "" {
			base = "/assets/"
		}
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u := base + url.PathEscape(a.File)
		if enc := q.Encode(); enc != "" {
			u += "?" + enc
		}
		return u, true
	}

	if r.ProjectID == "" {
		return "", false
	}
	if t.Format == "" {
		q.Set("auto", "format")
	} else {
		q.Set("fm", t.Format)
	}
	cdn := strings.TrimRight(r.CDN, "/")
	if cdn == "" {
		cdn = "https://cdn.sanity.io"
	}
	dataset := r.Dataset
	if dataset == "" {
		dataset = "production"
	}
	return fmt.Sprintf("%s/images/%s/%s/%s-%dx%d.%s?%s",
		cdn, r.ProjectID, dataset, a.ID, a.Width, a.Height, a.Format, q.Encode()), true
}
