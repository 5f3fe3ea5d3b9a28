package content

import (
	"strconv"
	"strings"
)

// LocalPrefix marks asset references that point at uploads served by the site.
const LocalPrefix = "local-"

// Asset is a parsed asset reference.
//
// CMS references look like "image-<id>-<w>x<h>-<format>"; uploads look like
// "local-<filename>".
type Asset struct {
	ID     string
	Width  int
	Height int
	Format string
	Local  bool
	File   string
}

// ParseAsset parses ref. It reports false for empty or malformed references.
func ParseAsset(ref string) (Asset, bool) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, LocalPrefix) {
		file := strings.TrimPrefix(ref, LocalPrefix)
		if file == "" || strings.ContainsAny(file, "/\\") || strings.HasPrefix(file, ".") {
			return Asset{}, false
		}
		return Asset{Local: true, File: file}, true
	}
	parts := strings.Split(ref, "-")
	if len(parts) != 4 || parts[0] != "image" || parts[1] == "" || parts[3] == "" {
		return Asset{}, false
	}
	w, h, ok := parseDims(parts[2])
	if !ok {
		return Asset{}, false
	}
	return Asset{ID: parts[1], Width: w, Height: h, Format: parts[3]}, true
}

func parseDims(s string) (int, int, bool) {
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, false
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
