// Package intel extracts structured scam indicators from attacker text.
// Extraction is pure and deterministic: the same input always yields the
// same indicator set, and empty input yields an empty set, never an error.
package intel

import (
	"regexp"
	"strings"

	"chameleon.app/honeypot/internal/model"
)

// Matchers are applied in order per category; matches are pooled, deduplicated
// by exact string value (not by pattern identity), then validated.
var (
	// Payment handles in user@provider form. The optional dotted tail detects
	// email addresses greedily sharing the prefix; such matches are skipped.
	upiPatterns = []*regexp.Regexp{
		regexp.MustCompile(`([A-Za-z0-9._-]{2,256}@[A-Za-z]{2,64})(\.[A-Za-z])?`),
		regexp.MustCompile(`([0-9]{10}@[A-Za-z]{2,10})`),
	}

	bankPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b([0-9][0-9 -]{7,20}[0-9])\b`),
		regexp.MustCompile(`\b([0-9]{9,18})\b`),
	}

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b([6-9][0-9]{9})\b`),
		regexp.MustCompile(`(\+?91[-\s]?[6-9][0-9]{9})\b`),
	}

	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(https?://[^\s<>"']+)`),
		regexp.MustCompile(`\b((?:bit\.ly|tinyurl\.com|t\.co|cutt\.ly|rb\.gy|is\.gd)/[A-Za-z0-9]+)`),
	}

	emailPattern = regexp.MustCompile(`\b([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})\b`)

	// CVV/OTP/PIN-like short digit sequences near a trigger keyword, in
	// either order. These are flagged sensitive and kept out of summaries.
	sensitiveCodePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:otp|cvv|pin|passcode|security code|verification code)\b\D{0,24}?\b([0-9]{3,6})\b`),
		regexp.MustCompile(`(?i)\b([0-9]{3,6})\b\D{0,24}?\b(?:otp|cvv|pin|passcode)\b`),
	}

	knownOrganizations = regexp.MustCompile(`(?i)\b(SBI|HDFC|ICICI|Axis Bank|RBI|CBI|TRAI|Income Tax Department|Enforcement Directorate|Delhi Police|Mumbai Police|Customs Department)\b`)
	claimedOrgPattern  = regexp.MustCompile(`(?i)(?:calling from|on behalf of|representing|officer from)\s+(?:the\s+)?([A-Z][A-Za-z&]*(?:\s+[A-Z][A-Za-z&]*){0,3})`)
)

// URL suspicion scoring inputs. The score is informational only: every
// syntactic URL match is retained regardless of how it scores.
var (
	abuseTLDs      = []string{".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".buzz", ".icu"}
	shortenerHosts = []string{"bit.ly", "tinyurl.com", "t.co", "cutt.ly", "rb.gy", "is.gd", "goo.gl"}
	suspiciousPath = []string{"login", "verify", "kyc", "update", "secure", "account", "bank", "refund", "claim", "unlock"}
)

// Extract runs every category's matcher chain over the text and returns the
// validated, deduplicated indicator set.
func Extract(text string) model.IndicatorSet {
	set := model.NewIndicatorSet()
	if strings.TrimSpace(text) == "" {
		return set
	}

	for _, value := range extractPaymentIDs(text) {
		set.Add(model.CategoryPaymentID, model.Indicator{Value: value})
	}
	for _, value := range matchAll(text, bankPatterns) {
		if normalized, ok := validBankAccount(value); ok {
			set.Add(model.CategoryBankAccount, model.Indicator{Value: normalized})
		}
	}
	for _, value := range matchAll(text, phonePatterns) {
		if validPhoneNumber(value) {
			set.Add(model.CategoryPhoneNumber, model.Indicator{Value: value})
		}
	}
	for _, value := range matchAll(text, urlPatterns) {
		set.Add(model.CategoryURL, model.Indicator{Value: value, Suspicion: URLSuspicion(value)})
	}
	for _, value := range matchAll(text, []*regexp.Regexp{emailPattern}) {
		set.Add(model.CategoryEmail, model.Indicator{Value: value})
	}
	for _, value := range matchAll(text, sensitiveCodePatterns) {
		set.Add(model.CategorySensitiveCode, model.Indicator{Value: value, Sensitive: true})
	}
	for _, value := range extractOrganizations(text) {
		set.Add(model.CategoryOrganization, model.Indicator{Value: value})
	}

	return set
}

// matchAll pools the first capture group of every match across the given
// patterns, preserving first-seen order.
func matchAll(text string, patterns []*regexp.Regexp) []string {
	var values []string
	for _, pattern := range patterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			values = append(values, m[1])
		}
	}
	return values
}

func extractPaymentIDs(text string) []string {
	var values []string
	for i, pattern := range upiPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			// First pattern carries the email-tail group; a non-empty tail
			// means this is really an email address, not a payment handle.
			if i == 0 && m[2] != "" {
				continue
			}
			if validPaymentID(m[1]) {
				values = append(values, m[1])
			}
		}
	}
	return values
}

func validPaymentID(value string) bool {
	if len(value) > 260 {
		return false
	}
	at := strings.Index(value, "@")
	if at < 0 {
		return false
	}
	return at >= 2 && len(value)-at-1 >= 2
}

// validPhoneNumber accepts exactly 10 digits with a mobile leading digit, or
// 12 digits carrying the 91 country prefix before a valid mobile number.
func validPhoneNumber(value string) bool {
	digits := stripNonDigits(value)
	switch len(digits) {
	case 10:
		return digits[0] >= '6' && digits[0] <= '9'
	case 12:
		return strings.HasPrefix(digits, "91") && digits[2] >= '6' && digits[2] <= '9'
	default:
		return false
	}
}

func validBankAccount(value string) (string, bool) {
	digits := stripNonDigits(value)
	if len(digits) < 9 || len(digits) > 18 {
		return "", false
	}
	return digits, true
}

func stripNonDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// URLSuspicion scores how likely a link is part of a phishing flow. It feeds
// prioritization only; a zero score still keeps the link in the set.
func URLSuspicion(rawURL string) float64 {
	lower := strings.ToLower(rawURL)
	host := lower
	if idx := strings.Index(host, "://"); idx >= 0 {
		host = host[idx+3:]
	}
	path := ""
	if idx := strings.IndexAny(host, "/?"); idx >= 0 {
		path = host[idx:]
		host = host[:idx]
	}

	score := 0.0
	for _, tld := range abuseTLDs {
		if strings.HasSuffix(host, tld) {
			score += 0.4
			break
		}
	}
	for _, shortener := range shortenerHosts {
		if host == shortener {
			score += 0.3
			break
		}
	}
	for _, keyword := range suspiciousPath {
		if strings.Contains(path, keyword) {
			score += 0.15
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func extractOrganizations(text string) []string {
	var values []string
	for _, m := range knownOrganizations.FindAllStringSubmatch(text, -1) {
		values = append(values, m[1])
	}
	for _, m := range claimedOrgPattern.FindAllStringSubmatch(text, -1) {
		values = append(values, strings.TrimSpace(m[1]))
	}
	return values
}
