package authgate

import "strings"

// foldingDomains are registrars that ignore dots in the local part and
// treat everything after a "+" as a routing tag. Two addresses that fold
// to the same string deliver to the same mailbox.
var foldingDomains = map[string]bool{
	"gmail.com": true,
}

// Canonicalize normalizes an email address to its canonical mailbox form:
// surrounding whitespace trimmed, domain lower cased, and provider folding
// applied for domains that ignore dots and plus suffixes. The canonical
// form is what we store and what uniqueness is enforced against.
//
// Canonicalize is idempotent: feeding its output back returns the same
// string.
func Canonicalize(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", ErrInvalidEmail
	}

	if strings.Count(email, "@") != 1 {
		return "", ErrInvalidEmail
	}

	if strings.HasPrefix(email, "+") {
		return "", ErrInvalidEmail
	}

	at := strings.Index(email, "@")
	local, domain := email[:at], email[at+1:]
	if local == "" || domain == "" {
		return "", ErrInvalidEmail
	}

	domain = strings.ToLower(domain)

	if foldingDomains[domain] {
		local = strings.ReplaceAll(local, ".", "")
		if i := strings.Index(local, "+"); i != -1 {
			local = local[:i]
		}
		if local == "" {
			return "", ErrInvalidEmail
		}
	}

	return local + "@" + domain, nil
}
