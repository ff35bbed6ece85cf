package jobs

import (
	"regexp"
	"sort"
	"strings"
)

const (
	RegimeRemote = "remote"
	RegimeHybrid = "hybrid"
	RegimeOnSite = "on-site"
	RegimeOther  = "other"
)

var regimePatterns = []struct {
	regime string
	re     *regexp.Regexp
}{
	{RegimeRemote, regexp.MustCompile(`\bremoto\b|\bremote\b`)},
	{RegimeHybrid, regexp.MustCompile(`\bh[íi]brido\b|\bhybrid\b`)},
	{RegimeOnSite, regexp.MustCompile(`\bpresencial\b|\bon-?site\b|\bf[íi]sico\b`)},
}

// WorkRegime classifies a posting as remote, hybrid, on-site or other from its text values.
func WorkRegime(r Record) string {
	text := strings.ToLower(recordText(r))
	for _, p := range regimePatterns {
		if p.re.MatchString(text) {
			return p.regime
		}
	}
	return RegimeOther
}

// recordText joins every string value of the posting, plus the names of flags set to true.
func recordText(r Record) string {
	if r.Fields == nil {
		return string(r.Raw)
	}
	var parts []string
	collectText(r.Fields, &parts)
	return strings.Join(parts, " ")
}

func collectText(v any, out *[]string) {
	switch t := v.(type) {
	case string:
		*out = append(*out, t)
	case []any:
		for _, item := range t {
			collectText(item, out)
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if b, ok := t[k].(bool); ok && b {
				*out = append(*out, k)
				continue
			}
			collectText(t[k], out)
		}
	}
}
