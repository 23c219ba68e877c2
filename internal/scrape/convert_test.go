package scrape

import (
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Acme Terms</title><style>body { color: red }</style></head>
<body>
<nav><a href="/">Home</a></nav>
<main>
<h1>Terms of Service</h1>
<p>Liability is capped at twelve months of fees.</p>
<a href="/legal/privacy">Privacy Policy</a>
<a href="https://status.acme.com/uptime">Status</a>
<a href="#section-2">Jump</a>
<a href="mailto:legal@acme.com">Email us</a>
<a href="/legal/privacy">Privacy again</a>
</main>
<footer>Copyright Acme</footer>
</body>
</html>`

func TestConvert_TextAndLinks(t *testing.T) {
	conv := NewConverter()
	text, links, err := conv.Convert([]byte(samplePage), "https://acme.com/terms")
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	if !strings.Contains(text, "Terms of Service") {
		t.Errorf("heading missing from text:\n%s", text)
	}
	if !strings.Contains(text, "capped at twelve months") {
		t.Errorf("body text missing:\n%s", text)
	}
	if strings.Contains(text, "color: red") {
		t.Errorf("style content leaked into text:\n%s", text)
	}

	want := map[string]bool{
		"https://acme.com/":              true,
		"https://acme.com/legal/privacy": true,
		"https://status.acme.com/uptime": true,
	}
	if len(links) != len(want) {
		t.Fatalf("links = %v, want %d entries", links, len(want))
	}
	for _, link := range links {
		if !want[link] {
			t.Errorf("unexpected link %q", link)
		}
	}
}

func TestConvert_RelativeLinkResolution(t *testing.T) {
	page := `<html><body><p>hi</p><a href="../privacy">Privacy</a></body></html>`
	conv := NewConverter()
	_, links, err := conv.Convert([]byte(page), "https://acme.com/legal/terms")
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if len(links) != 1 || links[0] != "https://acme.com/privacy" {
		t.Errorf("links = %v, want [https://acme.com/privacy]", links)
	}
}

func TestConvert_NoMainFallsBackToBody(t *testing.T) {
	page := `<html><head><script>alert(1)</script></head>
<body><div><p>Support response within 24 hours.</p></div></body></html>`
	conv := NewConverter()
	text, _, err := conv.Convert([]byte(page), "https://acme.com/support")
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if !strings.Contains(text, "Support response within 24 hours.") {
		t.Errorf("body text missing:\n%s", text)
	}
	if strings.Contains(text, "alert(1)") {
		t.Errorf("script content leaked into text:\n%s", text)
	}
}

func TestCleanMarkdown(t *testing.T) {
	in := "Heading  \n\n\n\n\nBody text\t\n"
	got := cleanMarkdown(in)
	if got != "Heading\n\nBody text" {
		t.Errorf("cleanMarkdown() = %q", got)
	}
}
