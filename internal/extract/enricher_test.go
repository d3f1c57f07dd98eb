package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nborstad/outreach/internal/prospect"
)

type fakeEnrichStore struct {
	todo   []prospect.Company
	set    map[string]string
	setErr error
}

func (s *fakeEnrichStore) CompaniesMissingEmail(context.Context) ([]prospect.Company, error) {
	return s.todo, nil
}

func (s *fakeEnrichStore) SetEmail(_ context.Context, orgnr, email string) error {
	if s.setErr != nil {
		return s.setErr
	}
	if s.set == nil {
		s.set = make(map[string]string)
	}
	s.set[orgnr] = email
	return nil
}

func TestEnricherRun(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"http://x.no": "Kontakt: post@x.no",
	}}
	st := &fakeEnrichStore{todo: []prospect.Company{
		{OrgNr: "1", Website: "x.no"},
		{OrgNr: "2", Website: ""},     // no website, skipped
		{OrgNr: "3", Website: "y.no"}, // all fetches fail, skipped
	}}
	e := NewEnricher(st, New(fetcher, noWait{}, 3, zap.NewNop()), noWait{}, zap.NewNop())

	n, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, map[string]string{"1": "post@x.no"}, st.set)
}

func TestEnricherStoreFailureIsFatal(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"http://x.no": "post@x.no",
	}}
	st := &fakeEnrichStore{
		todo:   []prospect.Company{{OrgNr: "1", Website: "x.no"}},
		setErr: errors.New("disk full"),
	}
	e := NewEnricher(st, New(fetcher, noWait{}, 3, zap.NewNop()), noWait{}, zap.NewNop())

	_, err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
