// Package normalize centralizes the canonical forms of user-entered fields.
// Every read and write site goes through these helpers so defaulting rules
// are stated once instead of ad hoc at each call site.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EmailValid reports whether s has the shape of a deliverable address:
// a local part, one "@", and a dotted domain. Deliverability is the mail
// server's problem; this catches the typos that matter at the form.
func EmailValid(s string) bool {
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	if strings.ContainsAny(s, " \t") {
		return false
	}
	domain := s[at+1:]
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// Name collapses interior runs of whitespace and trims the ends.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role lowercases and trims a role string.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims a status; empty defaults to "active".
func Status(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "active"
	}
	return s
}

// ClubStatus lowercases and trims a club status; empty defaults to "active".
func ClubStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "active"
	}
	return s
}
