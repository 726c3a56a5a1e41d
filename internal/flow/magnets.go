package flow

import "strings"

// LeadMagnets maps a lowercase keyword to the reward URL.
type LeadMagnets map[string]string

// NormalizeKeyword is the single place keywords are canonicalised.
func NormalizeKeyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Lookup returns the URL for a user supplied keyword.
func (m LeadMagnets) Lookup(keyword string) (string, bool) {
	url, ok := m[NormalizeKeyword(keyword)]
	return url, ok
}

// Example returns the alphabetically first keyword, used in prompts.
func (m LeadMagnets) Example() string {
	first := ""
	for k := range m {
		if first == "" || k < first {
			first = k
		}
	}
	return first
}
