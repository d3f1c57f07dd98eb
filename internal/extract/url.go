// Package extract finds contact emails on company websites.
package extract

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// NormalizeURL prepares a website reference for crawling: trims
// whitespace, prepends a default scheme when missing and strips the
// trailing slash. Empty or unparseable input yields ok=false.
func NormalizeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	return strings.TrimRight(u.String(), "/"), true
}

// registrableDomain derives the second-level-plus-suffix domain of the
// normalized site URL, used to validate that an extracted email belongs
// to the site itself. Hosts without a public suffix (IPs, intranet names)
// fall back to the bare host.
func registrableDomain(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	if ip := net.ParseIP(host); ip != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
