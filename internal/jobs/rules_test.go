package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, body string) Record {
	t.Helper()
	r := NewRecord([]byte(body))
	require.NotNil(t, r.Fields)
	return r
}

func TestResolveFirstMatchWins(t *testing.T) {
	rules := []FieldRule{{Key: "title"}, {Key: "titulo"}, {Key: "job_title"}}
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{"first key", `{"title":"Dev","titulo":"Programador"}`, "Dev", true},
		{"blank skipped", `{"title":"  ","titulo":"Programador"}`, "Programador", true},
		{"null skipped", `{"title":null,"job_title":"Eng"}`, "Eng", true},
		{"trimmed", `{"job_title":"  Eng  "}`, "Eng", true},
		{"none", `{"name":"x"}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(record(t, tt.body).Fields, rules)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNestedAndArrays(t *testing.T) {
	r := record(t, `{"company":{"id":3,"nome":"Acme SA"},"locations":[{"id":1,"name":"Lisboa"},{"name":"Porto"}],"types":["Full-time"]}`)
	company, ok := Resolve(r.Fields, CompanyRules)
	assert.True(t, ok)
	assert.Equal(t, "Acme SA", company)
	assert.Equal(t, "Lisboa", ResolveOr(r.Fields, LocationRules, Unknown))
	assert.Equal(t, "Full-time", ResolveOr(r.Fields, TypeRules, Unknown))
}

func TestResolveObjectWithoutSubKeysFallsThrough(t *testing.T) {
	r := record(t, `{"company":{"id":3},"company_name":"Fallback Lda"}`)
	got, _ := Resolve(r.Fields, CompanyRules)
	assert.Equal(t, "Fallback Lda", got)
}

func TestResolveNumbers(t *testing.T) {
	r := record(t, `{"id":1234567890123}`)
	got, ok := Resolve(r.Fields, IDRules)
	assert.True(t, ok)
	assert.Equal(t, "1234567890123", got)
}

func TestFromRecordDefaults(t *testing.T) {
	j := FromRecord(record(t, `{}`))
	assert.Equal(t, "", j.ID)
	assert.Equal(t, "", j.Title)
	assert.Equal(t, "", j.CompanyName)
	assert.Equal(t, "", j.Description)
	assert.Equal(t, Unknown, j.Location)
	assert.Equal(t, Unknown, j.JobType)

	nonObject := FromRecord(NewRecord([]byte(`"just a string"`)))
	assert.Equal(t, Unknown, nonObject.Location)
	assert.Equal(t, `"just a string"`, string(nonObject.Raw))
}

func TestFromRecordItjobsShape(t *testing.T) {
	body := `{"id":512,"company":{"id":9,"name":"Blip"},"title":"Backend Engineer","body":"<p>Go and Python</p>",
"types":[{"id":1,"name":"Full-time"}],"locations":[{"id":18,"name":"Porto"}],"wage":"40k","publishedAt":"2025-03-01 10:00:00"}`
	j := FromRecord(record(t, body))
	assert.Equal(t, "512", j.ID)
	assert.Equal(t, "Blip", j.CompanyName)
	assert.Equal(t, "Backend Engineer", j.Title)
	assert.Equal(t, "<p>Go and Python</p>", j.Description)
	assert.Equal(t, "Porto", j.Location)
	assert.Equal(t, "Full-time", j.JobType)
	assert.Equal(t, "40k", j.Salary)
	assert.Equal(t, "2025-03-01 10:00:00", j.PublishedDate)
}

func TestRecordIDMissing(t *testing.T) {
	_, err := RecordID(record(t, `{"title":"x"}`))
	assert.ErrorIs(t, err, ErrNoJobID)
}

func TestWorkRegime(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"title":"Dev (Remoto)"}`, RegimeRemote},
		{`{"title":"Dev","body":"100% remote"}`, RegimeRemote},
		{`{"title":"Dev","body":"Regime híbrido em Lisboa"}`, RegimeHybrid},
		{`{"title":"Dev","locations":[{"name":"Hybrid - Porto"}]}`, RegimeHybrid},
		{`{"title":"Dev","body":"Trabalho presencial"}`, RegimeOnSite},
		{`{"title":"Dev","body":"on-site in Braga"}`, RegimeOnSite},
		{`{"title":"Dev","remote":true}`, RegimeRemote},
		{`{"title":"Dev","remote":false}`, RegimeOther},
		{`{"title":"Remotely interesting"}`, RegimeOther},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkRegime(record(t, tt.body)))
		})
	}
}
