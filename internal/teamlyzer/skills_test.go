package teamlyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopSkills(t *testing.T) {
	c, f := newFakeClient(t)
	f.pages[c.jobsSearchURL("backend", 1)] = `<html><body>
<a href="/companies/jobs?tags=Python,Django">Python, Django</a>
<a href="/companies/jobs?search=backend&amp;tags=python|aws">Python | AWS</a>
<a href="/companies/acme">Acme</a>
</body></html>`
	f.pages[c.jobsSearchURL("backend", 2)] = `<html><body><a href="/companies/jobs?tags=AWS">AWS</a></body></html>`

	got, err := c.TopSkills(context.Background(), "backend", 3, 2)
	require.Error(t, err, "page 3 is missing and aborts the scan")
	assert.Nil(t, got)

	f.pages[c.jobsSearchURL("backend", 3)] = `<html><body><a href="/companies/jobs?tags=react%2Cnode">x</a></body></html>`
	got, err = c.TopSkills(context.Background(), "backend", 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []TagCount{{Skill: "python", Count: 2}, {Skill: "aws", Count: 2}}, got)
}

func TestTopSkillsStopsWhenFirstPageHasNoTags(t *testing.T) {
	c, f := newFakeClient(t)
	f.pages[c.jobsSearchURL("cobol", 1)] = `<html><body><p>No jobs</p></body></html>`

	got, err := c.TopSkills(context.Background(), "cobol", 3, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, f.calls, 1)
}

func TestTopSkillsEmptyRole(t *testing.T) {
	c, _ := newFakeClient(t)
	_, err := c.TopSkills(context.Background(), " ", 3, 10)
	assert.Error(t, err)
}
