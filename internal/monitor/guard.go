package monitor

import (
	"net/url"
	"strings"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

// guardScanLimit bounds how much scraped text is searched for legal keywords.
const guardScanLimit = 12000

// minPopulatedForGuard is the field count above which a bare-homepage
// extraction becomes suspicious.
const minPopulatedForGuard = 4

// legalKeywords are stems whose presence in the scraped text makes a rich
// extraction plausible even from the site root.
var legalKeywords = []string{
	"liability", "limitation of liability", "indemnif", "terms of service",
	"terms and conditions", "governing law", "arbitration", "warranty",
	"sla", "uptime", "gdpr", "soc 2", "iso 27001", "data retention",
	"data processing", "subprocessor", "acceptable use",
}

// LooksFabricated reports whether a structured-extraction result is
// implausibly rich given its source. A marketing homepage with no legal
// language cannot legitimately yield four or more populated fact fields;
// such a result is discarded rather than stored.
func LooksFabricated(data *model.StructuredData, sourceURL, scrapedText string) bool {
	if data.PopulatedFields() < minPopulatedForGuard {
		return false
	}

	u, err := url.Parse(sourceURL)
	if err != nil {
		return false
	}
	if u.Path != "" && u.Path != "/" {
		return false
	}

	text := strings.ToLower(scrapedText)
	if len(text) > guardScanLimit {
		text = text[:guardScanLimit]
	}
	for _, kw := range legalKeywords {
		if strings.Contains(text, kw) {
			return false
		}
	}
	return true
}
