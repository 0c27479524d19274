package inputval

import (
	"net/url"
	"strings"
)

const localChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.!#$%&'*+/=?^_`{|}~-"

// IsValidEmail checks the practical shape of an address: one @, a sane
// local part, and dot-separated domain labels. Display-name forms like
// "Name <a@b.c>" are rejected. Single-label domains pass so dev setups
// like user@localhost keep working.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	local, domain := email[:at], email[at+1:]

	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	for _, r := range local {
		if !strings.ContainsRune(localChars, r) {
			return false
		}
	}

	for _, label := range strings.Split(domain, ".") {
		if label == "" {
			return false
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			ok := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-'
			if !ok {
				return false
			}
		}
	}
	return true
}

// IsValidHTTPURL reports whether the string is an absolute http or
// https URL.
func IsValidHTTPURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether the string is a 24-character hex
// Mongo ObjectID, the id form the tracking service uses throughout.
func IsValidObjectID(id string) bool {
	id = strings.TrimSpace(id)
	if len(id) != 24 {
		return false
	}
	for _, r := range id {
		ok := r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
		if !ok {
			return false
		}
	}
	return true
}

// IsValidIMEI reports whether the string is a 15-digit IMEI. Checksum
// verification stays server-side; this only catches typos early.
func IsValidIMEI(imei string) bool {
	imei = strings.TrimSpace(imei)
	if len(imei) != 15 {
		return false
	}
	for _, r := range imei {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
