package teamlyzer

import (
	"net/url"
	"strings"

	"github.com/baxromumarov/jobscout/internal/urlutil"
)

// jobTags extracts the skill tags encoded in job search links (/companies/jobs?tags=a,b).
func jobTags(links []*url.URL) []string {
	var out []string
	for _, u := range links {
		if segs := urlutil.Segments(u.Path); len(segs) != 2 || !strings.EqualFold(segs[0], "companies") || !strings.EqualFold(segs[1], "jobs") {
			continue
		}
		raw := u.Query().Get("tags")
		if raw == "" {
			continue
		}
		for _, tag := range strings.FieldsFunc(strings.ToLower(raw), tagSeparators) {
			if tag = strings.TrimSpace(tag); tag != "" {
				out = append(out, tag)
			}
		}
	}
	return out
}
