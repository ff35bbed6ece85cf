package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Organization holds the company facts a page publishes as JSON-LD.
type Organization struct {
	Name        string
	Description string
	RatingValue string
}

var organizationTypes = map[string]bool{
	"Organization":  true,
	"Corporation":   true,
	"LocalBusiness": true,
	"Company":       true,
}

// OrganizationLD returns the first organization found in the page's ld+json blocks.
func (p *Page) OrganizationLD() (Organization, bool) {
	var (
		org   Organization
		found bool
	)
	p.Doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return true
		}
		var payload any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return true
		}
		org, found = findOrganization(payload)
		return !found
	})
	return org, found
}

func findOrganization(payload any) (Organization, bool) {
	switch t := payload.(type) {
	case map[string]any:
		if isOrganizationType(t["@type"]) {
			return Organization{
				Name:        ldString(t["name"]),
				Description: ldString(t["description"]),
				RatingValue: ratingValue(t["aggregateRating"]),
			}, true
		}
		if graph, ok := t["@graph"].([]any); ok {
			return findOrganization(graph)
		}
	case []any:
		for _, item := range t {
			if org, ok := findOrganization(item); ok {
				return org, true
			}
		}
	}
	return Organization{}, false
}

func isOrganizationType(t any) bool {
	switch v := t.(type) {
	case string:
		return organizationTypes[v]
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && organizationTypes[s] {
				return true
			}
		}
	}
	return false
}

func ratingValue(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	return ldString(m["ratingValue"])
}

func ldString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return fmt.Sprintf("%g", t)
	}
	return ""
}
