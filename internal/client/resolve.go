package client

import (
	"net/url"
	"strings"

	"car-listings-viewer/internal/model"
)

// ResolveURL prefixes a server-relative reference with base. Absolute URLs
// are returned unchanged and blank or "N/A" references resolve to "".
func ResolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.EqualFold(ref, "N/A") {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return strings.TrimRight(base, "/") + ref
}

func resolveOptional(base string, ref *string) *string {
	if ref == nil {
		return nil
	}
	resolved := ResolveURL(base, *ref)
	if resolved == "" {
		return nil
	}
	return &resolved
}

func resolveListing(base string, l *model.Listing) {
	l.ThumbnailURL = resolveOptional(base, l.ThumbnailURL)
}

func resolveDetail(base string, d *model.ListingDetail) {
	images := make([]model.Image, 0, len(d.Images))
	for _, img := range d.Images {
		if resolved := ResolveURL(base, img.URL); resolved != "" {
			images = append(images, model.Image{URL: resolved})
		}
	}
	d.Images = images
}
