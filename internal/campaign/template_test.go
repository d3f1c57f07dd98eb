package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererContext(t *testing.T) {
	r, err := NewRenderer(`Hei {{.company_name}} i {{.municipality}} ({{.website}}) - {{.email}}`)
	require.NoError(t, err)

	got, err := r.Render(map[string]string{
		"company_name": "Alfa AS",
		"municipality": "0301",
		"website":      "alfa.no",
		"email":        "post@alfa.no",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hei Alfa AS i 0301 (alfa.no) - post@alfa.no", got)
}

func TestDefaultTemplateUnsubscribeFooter(t *testing.T) {
	r, err := NewRenderer(DefaultTemplate)
	require.NoError(t, err)

	withLink, err := r.Render(map[string]string{
		"company_name":    "Alfa AS",
		"municipality":    "0301",
		"unsubscribe_url": "https://dittdomene.no/unsubscribe?email=post%40alfa.no",
	})
	require.NoError(t, err)
	assert.Contains(t, withLink, "stopp utsendelser")

	withoutLink, err := r.Render(map[string]string{
		"company_name": "Alfa AS",
		"municipality": "0301",
	})
	require.NoError(t, err)
	assert.NotContains(t, withoutLink, "stopp utsendelser")
}

func TestNewRendererRejectsBadTemplate(t *testing.T) {
	_, err := NewRenderer(`{{.company_name`)
	assert.Error(t, err)
}

func TestUnsubscribeLink(t *testing.T) {
	cases := []struct {
		name  string
		base  string
		email string
		want  string
	}{
		{"placeholder", "https://x.no/unsubscribe?email={{email}}", "post@alfa.no", "https://x.no/unsubscribe?email=post%40alfa.no"},
		{"no placeholder", "https://x.no/unsubscribe", "post@alfa.no", "https://x.no/unsubscribe"},
		{"empty base", "", "post@alfa.no", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, unsubscribeLink(tc.base, tc.email))
		})
	}
}
