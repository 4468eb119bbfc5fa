// Package classify labels candidate search hits: whether they are Red Hat
// related, what kind of resource they point at, and cleaned display fields.
// Everything here is a pure function over static tables so each rule can be
// unit-tested exhaustively.
package classify

import (
	"net/url"
	"regexp"
	"strings"

	"learnpath/internal/domain"
)

// relatedKeywords match against the concatenated lowercase title+url+description.
var relatedKeywords = []string{
	"red hat",
	"redhat",
	"openshift",
	"ansible",
	"rhel",
	"fedora",
	"centos",
	"jboss",
	"quarkus",
	"podman",
	"quay",
	"ceph",
	"satellite",
}

// officialBaseDomains anchor the official-domain allowlist; any host equal to
// or ending in one of these counts as official.
var officialBaseDomains = []string{
	"redhat.com",
	"openshift.com",
	"ansible.com",
}

// videoHostDomains are generic video hosts where the broad keyword rule is too
// noisy; hits there must name the brand or a flagship product explicitly.
var videoHostDomains = []string{
	"youtube.com",
	"youtu.be",
}

// videoHostKeywords is the stricter keyword set applied on video hosts.
var videoHostKeywords = []string{"red hat", "openshift", "ansible"}

var (
	whitespaceExpr = regexp.MustCompile(`\s+`)
	unsafeExpr     = regexp.MustCompile(`[^\w\s\-.,:()&/|'?!]`)
)

// IsRelated reports whether a candidate result is Red Hat relevant.
func IsRelated(title, rawURL, description string) bool {
	host := hostOf(rawURL)

	if isVideoHost(host) {
		text := strings.ToLower(title + " " + description)
		for _, kw := range videoHostKeywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}

	if IsOfficialDomain(host) {
		return true
	}

	text := strings.ToLower(title + " " + rawURL + " " + description)
	for _, kw := range relatedKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ClassifyType derives a content type from URL and title heuristics. The rule
// order is significant: first match wins. Empty or unparsable URLs classify
// as unknown.
func ClassifyType(rawURL, title string) domain.ContentType {
	host := hostOf(rawURL)
	if host == "" {
		return domain.TypeUnknown
	}

	lowerURL := strings.ToLower(rawURL)
	lowerTitle := strings.ToLower(title)

	switch {
	case isVideoHost(host):
		return domain.TypeVideo
	case strings.HasPrefix(host, "docs.") ||
		strings.Contains(lowerURL, "documentation") ||
		strings.Contains(lowerTitle, "documentation"):
		return domain.TypeDocumentation
	case containsAny(lowerURL+" "+lowerTitle, "training", "certification", "course", "exam", "rhcsa", "rhce"):
		return domain.TypeTraining
	case strings.HasSuffix(strings.ToLower(pathOf(rawURL)), ".pdf"):
		return domain.TypePDF
	case containsAny(lowerTitle, "tutorial", "demo", "walkthrough"):
		return domain.TypeVideo
	default:
		return domain.TypeArticle
	}
}

// IsOfficialDomain reports whether host belongs to the official allowlist.
func IsOfficialDomain(host string) bool {
	host = strings.ToLower(host)
	for _, base := range officialBaseDomains {
		if host == base || strings.HasSuffix(host, "."+base) {
			return true
		}
	}
	return false
}

// ExtractDomain returns the lowercase hostname of rawURL, or "unknown" when
// the URL cannot be parsed into one.
func ExtractDomain(rawURL string) string {
	host := hostOf(rawURL)
	if host == "" {
		return "unknown"
	}
	return host
}

// CleanTitle collapses whitespace and strips characters outside a safe subset.
func CleanTitle(title string) string {
	title = unsafeExpr.ReplaceAllString(title, "")
	title = whitespaceExpr.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// CleanDescription collapses whitespace and trims leading/trailing ellipses.
func CleanDescription(desc string) string {
	desc = whitespaceExpr.ReplaceAllString(desc, " ")
	desc = strings.TrimSpace(desc)
	for {
		trimmed := strings.TrimPrefix(desc, "...")
		trimmed = strings.TrimPrefix(trimmed, "…")
		trimmed = strings.TrimSuffix(trimmed, "...")
		trimmed = strings.TrimSuffix(trimmed, "…")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == desc {
			return desc
		}
		desc = trimmed
	}
}

func hostOf(rawURL string) string {
	if strings.TrimSpace(rawURL) == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

func pathOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Path
}

func isVideoHost(host string) bool {
	for _, v := range videoHostDomains {
		if host == v || strings.HasSuffix(host, "."+v) {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
