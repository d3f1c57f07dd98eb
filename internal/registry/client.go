// Package registry pages through the public company registry and maps
// raw entity records into companies.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultPageSize = 100

// Unit is the raw registry entity as returned by the API. Missing fields
// decode to their zero values; a partially filled record is still usable.
type Unit struct {
	OrgNr           string `json:"organisasjonsnummer"`
	Name            string `json:"navn"`
	BusinessAddress *struct {
		Municipality string `json:"kommunenummer"`
	} `json:"forretningsadresse"`
	PrimaryNACE *struct {
		Code string `json:"kode"`
	} `json:"naeringskode1"`
	Homepage string `json:"hjemmeside"`
}

// Page is one page of registry results. TotalPages is -1 when the API did
// not report a page count.
type Page struct {
	Units      []Unit
	TotalPages int
}

type pageEnvelope struct {
	Embedded struct {
		Units []Unit `json:"enheter"`
	} `json:"_embedded"`
	Page *struct {
		TotalPages int `json:"totalPages"`
	} `json:"page"`
}

// Client issues paged queries against the registry API.
type Client struct {
	baseURL   string
	userAgent string
	pageSize  int
	http      *http.Client
}

// NewClient creates a registry Client. The user agent must identify the
// operator per the registry's terms of use.
func NewClient(baseURL, userAgent string, timeout time.Duration, pageSize int) *Client {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		pageSize:  pageSize,
		http:      &http.Client{Timeout: timeout},
	}
}

// FetchPage retrieves one zero-based page of entities for a municipality,
// sorted by name ascending.
func (c *Client) FetchPage(ctx context.Context, municipality string, page int) (Page, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Page{}, fmt.Errorf("parse registry url: %w", err)
	}
	q := u.Query()
	q.Set("kommunenummer", municipality)
	q.Set("size", strconv.Itoa(c.pageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("sort", "navn,asc")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("build registry request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("registry get page %d: %w", page, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return Page{}, fmt.Errorf("registry get page %d: status %d", page, resp.StatusCode)
	}

	var env pageEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Page{}, fmt.Errorf("decode registry page %d: %w", page, err)
	}

	p := Page{Units: env.Embedded.Units, TotalPages: -1}
	if env.Page != nil {
		p.TotalPages = env.Page.TotalPages
	}
	return p, nil
}
