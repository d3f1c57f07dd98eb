package extract

import (
	"regexp"
	"sort"
	"strings"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// freeMailSuffixes host consumer mailboxes; addresses there never belong
// to the company itself.
var freeMailSuffixes = []string{
	"@gmail.com",
	"@outlook.com",
	"@hotmail.com",
	"@live.com",
}

// preferredLocalParts are generic contact aliases ranked above personal
// mailboxes.
var preferredLocalParts = []string{
	"kontakt@",
	"post@",
	"info@",
	"booking@",
	"bestilling@",
}

// extractEmails returns the deduplicated, lowercased email-shaped
// substrings of the page, with free-mail providers removed, sorted for
// deterministic downstream ranking.
func extractEmails(body []byte) []string {
	seen := make(map[string]struct{})
	for _, m := range emailPattern.FindAllString(string(body), -1) {
		email := strings.ToLower(m)
		if isFreeMail(email) {
			continue
		}
		seen[email] = struct{}{}
	}
	emails := make([]string, 0, len(seen))
	for e := range seen {
		emails = append(emails, e)
	}
	sort.Strings(emails)
	return emails
}

func isFreeMail(email string) bool {
	for _, suffix := range freeMailSuffixes {
		if strings.HasSuffix(email, suffix) {
			return true
		}
	}
	return false
}

// matchesDomain reports whether the address's domain equals, or is a
// subdomain of, the site's registrable domain. This keeps third-party
// addresses embedded in widgets and ads out of the result.
func matchesDomain(email, domain string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || domain == "" {
		return false
	}
	emailDomain := email[at+1:]
	return emailDomain == domain || strings.HasSuffix(emailDomain, "."+domain)
}

// bestEmail keeps the addresses on the site's own domain and ranks them:
// preferred contact aliases first, then shorter addresses, alphabetical
// as the final tiebreak.
func bestEmail(emails []string, domain string) (string, bool) {
	var qualified []string
	for _, e := range emails {
		if matchesDomain(e, domain) {
			qualified = append(qualified, e)
		}
	}
	if len(qualified) == 0 {
		return "", false
	}
	sort.SliceStable(qualified, func(i, j int) bool {
		pi, pj := isPreferred(qualified[i]), isPreferred(qualified[j])
		if pi != pj {
			return pi
		}
		if len(qualified[i]) != len(qualified[j]) {
			return len(qualified[i]) < len(qualified[j])
		}
		return qualified[i] < qualified[j]
	})
	return qualified[0], true
}

func isPreferred(email string) bool {
	for _, alias := range preferredLocalParts {
		if strings.Contains(email, alias) {
			return true
		}
	}
	return false
}
