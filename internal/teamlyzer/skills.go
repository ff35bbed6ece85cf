package teamlyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

type TagCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

var tagSeparators = func(r rune) bool { return r == ',' || r == '|' }

// TopSkills tallies the skill tags linked from the job search results for role over up to
// pages result pages and returns the top most frequent. Any page failure aborts the scan.
func (c *Client) TopSkills(ctx context.Context, role string, pages, top int) ([]TagCount, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, errors.New("role is empty")
	}
	if pages <= 0 {
		pages = 3
	}
	if top <= 0 {
		top = 10
	}

	counts := map[string]int{}
	var order []string
	for p := 1; p <= pages; p++ {
		page, err := c.fetchPage(ctx, c.jobsSearchURL(role, p))
		if err != nil {
			return nil, fmt.Errorf("teamlyzer jobs page %d: %w", p, err)
		}
		tags := jobTags(page.Links("a[href]"))
		if len(tags) == 0 && p == 1 {
			break
		}
		for _, tag := range tags {
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	out := make([]TagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, TagCount{Skill: tag, Count: counts[tag]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > top {
		out = out[:top]
	}
	return out, nil
}
