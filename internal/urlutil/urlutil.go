package urlutil

import (
	"net/url"
	"path"
	"strings"
)

var staticExtensions = map[string]struct{}{
	".css":   {},
	".gif":   {},
	".ico":   {},
	".jpeg":  {},
	".jpg":   {},
	".js":    {},
	".mp4":   {},
	".pdf":   {},
	".png":   {},
	".svg":   {},
	".webp":  {},
	".woff":  {},
	".woff2": {},
}

var skippedSchemes = []string{"mailto:", "tel:", "javascript:", "#"}

// Host lower-cases host and drops a leading www.
func Host(host string) string {
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}

// SameHost reports whether a and b name the same site, ignoring case and www.
func SameHost(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return Host(a) == Host(b)
}

// Resolve turns an href found on base into an absolute url. Non-navigational links
// (mailto, tel, javascript, in-page anchors) yield nil.
func Resolve(base *url.URL, href string) *url.URL {
	href = strings.TrimSpace(href)
	if href == "" {
		return nil
	}
	lower := strings.ToLower(href)
	for _, p := range skippedSchemes {
		if strings.HasPrefix(lower, p) {
			return nil
		}
	}
	u, err := url.Parse(href)
	if err != nil {
		return nil
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u
}

// Segments splits a url path into its segments without empty ends. Case is kept.
func Segments(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func IsStaticAsset(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return false
	}
	_, ok := staticExtensions[ext]
	return ok
}
