package stats

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/baxromumarov/jobscout/internal/jobs"
)

const dateLayout = "2006-01-02"

var isoDate = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// Window is an inclusive range of calendar dates.
type Window struct {
	Start time.Time
	End   time.Time
}

func ParseWindow(start, end string) (Window, error) {
	s, err := time.Parse(dateLayout, strings.TrimSpace(start))
	if err != nil {
		return Window{}, err
	}
	e, err := time.Parse(dateLayout, strings.TrimSpace(end))
	if err != nil {
		return Window{}, err
	}
	return Window{Start: s, End: e}, nil
}

func (w Window) Contains(day time.Time) bool {
	return !day.Before(w.Start) && !day.After(w.End)
}

type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// SkillTable is ordered by descending count. It marshals as one JSON object whose keys
// keep that order.
type SkillTable []SkillCount

func (t SkillTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sc := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sc.Skill)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(sc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type SkillReport struct {
	Counts  SkillTable          `json:"counts"`
	Matched []jobs.CanonicalJob `json:"matched"`
	// Undated counts postings without a usable date.
	Undated int `json:"undated"`
	// OutOfWindow counts dated postings outside the window.
	OutOfWindow int `json:"out_of_window"`
}

// PostingDate returns the first ISO date found anywhere in the posting's raw JSON.
func PostingDate(j jobs.CanonicalJob) (time.Time, bool) {
	m := isoDate.FindSubmatch(j.Raw)
	if m == nil {
		return time.Time{}, false
	}
	day, err := time.Parse(dateLayout, string(m[1]))
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// CountSkills counts vocabulary words in the title and description of postings dated
// inside window.
func CountSkills(postings []jobs.CanonicalJob, vocabulary []string, window Window) SkillReport {
	report := SkillReport{Counts: SkillTable{}, Matched: []jobs.CanonicalJob{}}
	totals := make([]int, len(vocabulary))

	for _, j := range postings {
		day, ok := PostingDate(j)
		if !ok {
			report.Undated++
			continue
		}
		if !window.Contains(day) {
			report.OutOfWindow++
			continue
		}

		text := strings.ToLower(j.Title + " " + j.Description)
		matched := false
		for i, skill := range vocabulary {
			n := countWord(text, strings.ToLower(skill))
			if n > 0 {
				totals[i] += n
				matched = true
			}
		}
		if matched {
			report.Matched = append(report.Matched, j)
		}
	}

	for i, skill := range vocabulary {
		if totals[i] > 0 {
			report.Counts = append(report.Counts, SkillCount{Skill: skill, Count: totals[i]})
		}
	}
	sort.SliceStable(report.Counts, func(a, b int) bool {
		return report.Counts[a].Count > report.Counts[b].Count
	})
	return report
}

// countWord counts occurrences of word in text that are not glued to other word characters.
func countWord(text, word string) int {
	if word == "" {
		return 0
	}
	count := 0
	for from := 0; from <= len(text)-len(word); {
		idx := strings.Index(text[from:], word)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(word)
		if !wordByteBefore(text, start) && !wordByteAt(text, end) {
			count++
			from = end
			continue
		}
		from = start + 1
	}
	return count
}

func wordByteBefore(text string, i int) bool {
	return i > 0 && isWordByte(text[i-1])
}

func wordByteAt(text string, i int) bool {
	return i < len(text) && isWordByte(text[i])
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
