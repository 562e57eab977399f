package usecase

import (
	"path"
	"regexp"
	"strings"
)

// CDN layout of the product media host.
const (
	cdnOrigin     = "https://cdn.modavera.com"
	cdnPathPrefix = "/product/media/"

	// hiResTag marks the full-resolution rendition of an asset. Filenames
	// already carrying the tag are left alone, which keeps Normalize
	// idempotent.
	hiResTag = "_org_zoom"
)

var (
	// resizeSegmentRegex matches the CDN's inline thumbnail directive
	// ("/mnresize/128/192"), which is dropped wholesale from the path.
	resizeSegmentRegex = regexp.MustCompile(`/mnresize/[0-9]+/[0-9]+`)

	// sizeSuffixRegex matches a pixel-size suffix baked into the filename
	// ("img_200x200.jpg").
	sizeSuffixRegex = regexp.MustCompile(`_[0-9]+x[0-9]+(\.[A-Za-z0-9]+)$`)

	videoExtensions = map[string]bool{
		".mp4":  true,
		".webm": true,
		".mov":  true,
		".avi":  true,
		".m3u8": true,
	}

	stillImageExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	}
)

// ImageNormalizer canonicalizes gallery asset URLs into absolute https
// links pointing at the full-resolution rendition. Unusable assets (video
// renditions, unsupported formats) normalize to the empty string.
type ImageNormalizer struct{}

func NewImageNormalizer() *ImageNormalizer {
	return &ImageNormalizer{}
}

// Normalize applies the canonicalization steps in order and returns "" when
// the URL cannot yield a usable still image. The result is stable under
// re-normalization.
func (n *ImageNormalizer) Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	// Cache-buster query parameters defeat dedup, drop them first.
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}

	ext := strings.ToLower(path.Ext(s))
	if videoExtensions[ext] {
		return ""
	}
	if !stillImageExtensions[ext] {
		return ""
	}

	switch {
	case strings.HasPrefix(s, cdnPathPrefix):
		s = cdnOrigin + s
	case strings.HasPrefix(s, "//"):
		s = "https:" + s
	case strings.HasPrefix(s, "/"):
		// Host-relative but outside the media tree; there is no origin to
		// resolve it against.
		return ""
	case !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://"):
		s = "https://" + s
	}

	s = resizeSegmentRegex.ReplaceAllString(s, "")
	s = sizeSuffixRegex.ReplaceAllString(s, "$1")

	return n.rewriteHiRes(s)
}

// rewriteHiRes retargets the filename at the full-resolution rendition
// unless it is already tagged.
func (n *ImageNormalizer) rewriteHiRes(u string) string {
	slash := strings.LastIndexByte(u, '/')
	name := u[slash+1:]
	if strings.Contains(name, hiResTag) {
		return u
	}
	ext := path.Ext(name)
	return u[:len(u)-len(ext)] + hiResTag + ext
}
