package urlutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	base, err := url.Parse("https://pt.teamlyzer.com/companies/?page=2")
	require.NoError(t, err)

	cases := []struct {
		href string
		want string
	}{
		{"/companies/acme", "https://pt.teamlyzer.com/companies/acme"},
		{"acme-sa", "https://pt.teamlyzer.com/companies/acme-sa"},
		{"https://other.example/x", "https://other.example/x"},
		{"mailto:hr@acme.pt", ""},
		{"JavaScript:void(0)", ""},
		{"#reviews", ""},
		{"  ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.href, func(t *testing.T) {
			u := Resolve(base, tc.href)
			if tc.want == "" {
				assert.Nil(t, u)
				return
			}
			require.NotNil(t, u)
			assert.Equal(t, tc.want, u.String())
		})
	}
}

func TestSameHostAndSegments(t *testing.T) {
	assert.True(t, SameHost("www.Teamlyzer.com", "teamlyzer.com"))
	assert.False(t, SameHost("pt.teamlyzer.com", "teamlyzer.com"))
	assert.False(t, SameHost("", ""))

	assert.Equal(t, []string{"Companies", "OutSystems"}, Segments("/Companies/OutSystems/"))
	assert.Nil(t, Segments("/"))

	assert.True(t, IsStaticAsset("/static/logo.PNG"))
	assert.False(t, IsStaticAsset("/companies/acme"))
}
