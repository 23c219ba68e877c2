package monitor

import (
	"net/url"
	"strings"
)

// twoLabelSuffixes are public suffixes spanning two labels, so that
// "shop.acme.co.uk" and "acme.co.uk" resolve to the same root domain.
var twoLabelSuffixes = map[string]bool{
	"co.uk": true, "org.uk": true, "ac.uk": true, "gov.uk": true,
	"com.au": true, "net.au": true, "org.au": true,
	"co.jp": true, "co.nz": true, "co.in": true, "co.za": true,
	"com.br": true, "com.mx": true, "com.sg": true,
}

// blockKeywords mark URLs that are editorial or corporate pages rather than
// legal/commercial documents. They are stem-matched against subdomain labels
// and path segments, never against the vendor's own registrable domain, so a
// vendor named newsco.com is not blocked by its own name. Block wins over
// allow.
var blockKeywords = []string{
	"blog", "news", "press", "careers", "about", "investors",
	"case-stud", "casestud", "forum", "community", "events",
}

// allowKeywords mark URL paths that plausibly hold legal or commercial
// commitments worth extracting.
var allowKeywords = []string{
	"terms", "tos", "privacy", "policy", "legal", "security", "trust",
	"sla", "uptime", "compliance", "dpa", "data-processing", "subprocessor",
	"pricing", "fees", "billing", "support",
}

// RootDomain reduces a hostname to its registrable root: "www." is stripped
// and two-label public suffixes are kept whole. Returns "" for inputs that
// do not look like a hostname.
func RootDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	host = strings.TrimPrefix(host, "www.")
	if host == "" || !strings.Contains(host, ".") {
		return ""
	}

	labels := strings.Split(host, ".")
	n := len(labels)
	if n >= 3 && twoLabelSuffixes[labels[n-2]+"."+labels[n-1]] {
		return strings.Join(labels[n-3:], ".")
	}
	return strings.Join(labels[n-2:], ".")
}

// IsRelevant reports whether candidate is an official, on-domain
// legal/commercial page for the vendor domain. Invalid inputs yield false.
func IsRelevant(vendorDomain, candidate string) bool {
	vendorHost := vendorDomain
	if strings.Contains(vendorDomain, "://") {
		u, err := url.Parse(vendorDomain)
		if err != nil {
			return false
		}
		vendorHost = u.Host
	}
	vendorRoot := RootDomain(vendorHost)
	if vendorRoot == "" {
		return false
	}

	u, err := url.Parse(candidate)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if RootDomain(host) != vendorRoot {
		return false
	}
	if host != vendorRoot && host != "www."+vendorRoot && !strings.HasSuffix(host, "."+vendorRoot) {
		return false
	}

	if hasBlockedSegment(host, vendorRoot, u.Path) {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, kw := range allowKeywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}

// hasBlockedSegment stem-matches block keywords against the subdomain labels
// in front of the registrable root and against each path segment. Matching
// per segment keeps blog.acme.com and acme.com/newsroom blocked without
// letting a root domain like newsco.com block itself.
func hasBlockedSegment(host, root, path string) bool {
	sub := strings.TrimSuffix(strings.TrimSuffix(host, root), ".")
	var segments []string
	if sub != "" {
		segments = strings.Split(sub, ".")
	}
	for _, seg := range strings.Split(strings.ToLower(path), "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	for _, seg := range segments {
		for _, kw := range blockKeywords {
			if strings.HasPrefix(seg, kw) {
				return true
			}
		}
	}
	return false
}
