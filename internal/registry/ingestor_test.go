package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type noWait struct{}

func (noWait) Wait(context.Context) {}

// scriptedFetcher serves pages from a per-municipality script and counts
// calls so tests can assert termination.
type scriptedFetcher struct {
	pages map[string][]Page
	errAt map[string]int
	calls int
}

func (f *scriptedFetcher) FetchPage(_ context.Context, muni string, page int) (Page, error) {
	f.calls++
	if at, ok := f.errAt[muni]; ok && page == at {
		return Page{}, errors.New("boom")
	}
	script := f.pages[muni]
	if page < len(script) {
		return script[page], nil
	}
	return Page{TotalPages: -1}, nil
}

func unitsRange(start, n int) []Unit {
	units := make([]Unit, 0, n)
	for i := 0; i < n; i++ {
		units = append(units, Unit{
			OrgNr: fmt.Sprintf("9%08d", start+i),
			Name:  fmt.Sprintf("Company %d", start+i),
			PrimaryNACE: &struct {
				Code string `json:"kode"`
			}{Code: "56.101"},
		})
	}
	return units
}

func newTestIngestor(f Fetcher) *Ingestor {
	return NewIngestor(f, noWait{}, fixedClock{t: time.Unix(1700000000, 0).UTC()}, zap.NewNop())
}

func TestIngestorStopsOnEmptyPage(t *testing.T) {
	f := &scriptedFetcher{pages: map[string][]Page{
		"0301": {
			{Units: unitsRange(0, 100), TotalPages: -1},
			{Units: unitsRange(100, 50), TotalPages: -1},
			{TotalPages: -1},
		},
	}}

	got := newTestIngestor(f).Run(context.Background(), Params{
		Municipalities: []string{"0301"},
		NACEPrefixes:   []string{"56"},
	})

	assert.Len(t, got, 150)
	// Two full pages plus the empty third page.
	assert.Equal(t, 3, f.calls)
}

func TestIngestorStopsOnRepeatingPage(t *testing.T) {
	repeat := Page{Units: unitsRange(0, 10), TotalPages: -1}
	f := &scriptedFetcher{pages: map[string][]Page{
		"0301": {repeat, repeat, repeat, repeat},
	}}

	got := newTestIngestor(f).Run(context.Background(), Params{
		Municipalities: []string{"0301"},
	})

	// First page ingested once; the echo is detected on the second fetch.
	assert.Len(t, got, 10)
	assert.Equal(t, 2, f.calls)
}

func TestIngestorHonorsPageCap(t *testing.T) {
	pages := make([]Page, 10)
	for i := range pages {
		pages[i] = Page{Units: unitsRange(i*100, 100), TotalPages: -1}
	}
	f := &scriptedFetcher{pages: map[string][]Page{"0301": pages}}

	got := newTestIngestor(f).Run(context.Background(), Params{
		Municipalities: []string{"0301"},
		MaxPages:       2,
	})

	assert.Len(t, got, 200)
	assert.Equal(t, 2, f.calls)
}

func TestIngestorStopsAtReportedTotalPages(t *testing.T) {
	f := &scriptedFetcher{pages: map[string][]Page{
		"0301": {
			{Units: unitsRange(0, 100), TotalPages: 2},
			{Units: unitsRange(100, 100), TotalPages: 2},
			{Units: unitsRange(200, 100), TotalPages: 2},
		},
	}}

	got := newTestIngestor(f).Run(context.Background(), Params{
		Municipalities: []string{"0301"},
	})

	assert.Len(t, got, 200)
	assert.Equal(t, 2, f.calls)
}

func TestIngestorFailureIsLocalToMunicipality(t *testing.T) {
	f := &scriptedFetcher{
		pages: map[string][]Page{
			"0301": {{Units: unitsRange(0, 5), TotalPages: -1}},
			"4601": {{Units: unitsRange(500, 7), TotalPages: 1}},
		},
		errAt: map[string]int{"0301": 0},
	}

	got := newTestIngestor(f).Run(context.Background(), Params{
		Municipalities: []string{"0301", "4601"},
	})

	// 0301 fails on its first page; 4601 still ingests.
	assert.Len(t, got, 7)
}

func TestIngestorNACEPrefixFilter(t *testing.T) {
	units := []Unit{
		{OrgNr: "1", Name: "Serveringen AS", PrimaryNACE: &struct {
			Code string `json:"kode"`
		}{Code: "56.101"}},
		{OrgNr: "2", Name: "Snekkeren AS", PrimaryNACE: &struct {
			Code string `json:"kode"`
		}{Code: "43.320"}},
		// No industry code at all: passes the filter.
		{OrgNr: "3", Name: "Ukjent AS"},
	}
	f := &scriptedFetcher{pages: map[string][]Page{
		"0301": {{Units: units, TotalPages: 1}},
	}}

	got := newTestIngestor(f).Run(context.Background(), Params{
		Municipalities: []string{"0301"},
		NACEPrefixes:   []string{"56"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].OrgNr)
	assert.Equal(t, "3", got[1].OrgNr)
}

func TestIngestorEmptyPrefixSetMeansNoFilter(t *testing.T) {
	f := &scriptedFetcher{pages: map[string][]Page{
		"0301": {{Units: unitsRange(0, 4), TotalPages: 1}},
	}}

	got := newTestIngestor(f).Run(context.Background(), Params{
		Municipalities: []string{"0301"},
	})
	assert.Len(t, got, 4)
}

func TestMapUnitDefaultsMissingFields(t *testing.T) {
	c, ok := mapUnit(Unit{OrgNr: " 910 ", Name: " Alfa "}, nil, time.Unix(0, 0))
	require.True(t, ok)
	assert.Equal(t, "910", c.OrgNr)
	assert.Equal(t, "Alfa", c.Name)
	assert.Empty(t, c.Municipality)
	assert.Empty(t, c.NACE)
	assert.Empty(t, c.Website)
}
