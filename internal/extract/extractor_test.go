package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noWait struct{}

func (noWait) Wait(context.Context) {}

// fakeFetcher serves canned bodies keyed by URL; any other URL errors.
type fakeFetcher struct {
	pages   map[string]string
	visited []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	f.visited = append(f.visited, rawURL)
	if body, ok := f.pages[rawURL]; ok {
		return []byte(body), nil
	}
	return nil, errors.New("not found")
}

func TestFindEmailOnContactPage(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"http://x.no":         "<html>Velkommen til X</html>",
		"http://x.no/kontakt": "Post: info@x.no, Annonse: ads@adnetwork.com",
	}}
	e := New(f, noWait{}, 3, zap.NewNop())

	email, ok := e.FindEmail(context.Background(), "x.no")
	require.True(t, ok)
	assert.Equal(t, "info@x.no", email)
}

func TestFindEmailStopsAtFirstHit(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"http://x.no":         "Kontakt: post@x.no",
		"http://x.no/kontakt": "Also: info@x.no",
	}}
	e := New(f, noWait{}, 3, zap.NewNop())

	email, ok := e.FindEmail(context.Background(), "x.no")
	require.True(t, ok)
	assert.Equal(t, "post@x.no", email)
	assert.Equal(t, []string{"http://x.no"}, f.visited)
}

func TestFindEmailSkipsFailedPages(t *testing.T) {
	// Home page and /kontakt fail; /om-oss has the address.
	f := &fakeFetcher{pages: map[string]string{
		"http://x.no/om-oss": "Skriv til bestilling@x.no",
	}}
	e := New(f, noWait{}, 6, zap.NewNop())

	email, ok := e.FindEmail(context.Background(), "x.no")
	require.True(t, ok)
	assert.Equal(t, "bestilling@x.no", email)
}

func TestFindEmailRespectsPageCap(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		// The hit sits on the fourth candidate path, beyond the cap.
		"http://x.no/contact": "info@x.no",
	}}
	e := New(f, noWait{}, 3, zap.NewNop())

	_, ok := e.FindEmail(context.Background(), "x.no")
	assert.False(t, ok)
	assert.Len(t, f.visited, 3)
}

func TestFindEmailRejectsForeignDomains(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"http://x.no": "Our partner: hello@partner.com",
	}}
	e := New(f, noWait{}, 6, zap.NewNop())

	_, ok := e.FindEmail(context.Background(), "x.no")
	assert.False(t, ok)
}

func TestFindEmailAcceptsSubdomainAddresses(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"http://www.x.no": "Kontakt: post@mail.x.no",
	}}
	e := New(f, noWait{}, 6, zap.NewNop())

	email, ok := e.FindEmail(context.Background(), "www.x.no")
	require.True(t, ok)
	assert.Equal(t, "post@mail.x.no", email)
}

func TestFindEmailEmptyWebsite(t *testing.T) {
	e := New(&fakeFetcher{}, noWait{}, 3, zap.NewNop())
	_, ok := e.FindEmail(context.Background(), "")
	assert.False(t, ok)
	_, ok = e.FindEmail(context.Background(), "   ")
	assert.False(t, ok)
}
