package teamlyzer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/baxromumarov/jobscout/internal/content"
)

const (
	descriptionScanLines = 40
	descriptionMinLen    = 60
	benefitMinLen        = 3
)

var ratingPattern = regexp.MustCompile(`(\d(?:\.\d)?)\s*/\s*5`)

var descriptionDenylist = regexp.MustCompile(
	`/5|Reviews|Overview|Jobs|Interview|Salary|Follow|Visão geral|Emprego|Entrevista|Salário|Seguir`)

var salaryPatterns = []struct {
	re     *regexp.Regexp
	format string
}{
	{regexp.MustCompile(`(?i)sal[aá]rio m[eé]dio.*?entre\s+os\s+([^.]+?)\s+e\s+([^.]+?)\.`), "entre %s e %s"},
	{regexp.MustCompile(`(?i)average salary.*?between\s+([^.]+?)\s+and\s+([^.]+?)\.`), "between %s and %s"},
}

var (
	benefitsStart = []string{"beneficios e vantagens", "benefits and values"}
	benefitsEnd   = []string{"valores e cultura", "values and culture"}
	bulletMarkers = []string{"* ", "• ", "- "}
)

// Rating is a company score out of 5. When the matched text is not a number only Raw is set.
type Rating struct {
	Value  float64
	Raw    string
	Parsed bool
}

func NewRating(raw string) *Rating {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	r := &Rating{Raw: raw}
	if v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64); err == nil {
		r.Value = v
		r.Parsed = true
	}
	return r
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if r.Parsed {
		return json.Marshal(r.Value)
	}
	return json.Marshal(r.Raw)
}

func (r Rating) String() string {
	if r.Parsed {
		return strconv.FormatFloat(r.Value, 'f', -1, 64)
	}
	return r.Raw
}

// ParseRating returns the first "d[.d] / 5" score in text.
func ParseRating(text string) *Rating {
	m := ratingPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return NewRating(m[1])
}

// FindDescription picks the first prose-looking line among the leading lines of a page.
func FindDescription(lines []string) *string {
	for i, line := range lines {
		if i >= descriptionScanLines {
			break
		}
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < descriptionMinLen {
			continue
		}
		if descriptionDenylist.MatchString(line) {
			continue
		}
		return &line
	}
	return nil
}

func ParseSalary(text string) *string {
	for _, p := range salaryPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		out := fmt.Sprintf(p.format, strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
		return &out
	}
	return nil
}

// ParseBenefits collects the bullet lines of the benefits section, deduplicated by
// normalized text and truncated to top.
func ParseBenefits(lines []string, top int) []string {
	out := []string{}
	if top <= 0 {
		return out
	}
	seen := map[string]bool{}
	inSection := false
	for _, line := range lines {
		norm := content.Normalize(line)
		if containsAny(norm, benefitsStart) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if containsAny(norm, benefitsEnd) {
			if len(out) > 0 {
				break
			}
			// a navigation tab, not the section itself
			inSection = false
			continue
		}
		title, ok := bulletText(line)
		if !ok || utf8.RuneCountInString(title) < benefitMinLen {
			continue
		}
		key := content.Normalize(title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, title)
		if len(out) == top {
			break
		}
	}
	return out
}

func bulletText(line string) (string, bool) {
	line = strings.TrimSpace(line)
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker)), true
		}
	}
	return "", false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
