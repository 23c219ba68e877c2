package scrape

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Converter turns fetched HTML into markdown text suitable for
// fingerprinting and analysis.
type Converter struct {
	converter *md.Converter
}

// NewConverter creates an HTML to markdown converter.
func NewConverter() *Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Converter{converter: converter}
}

// Convert extracts the readable content of an HTML page and returns it as
// markdown, along with all absolute links found in the document.
func (c *Converter) Convert(body []byte, pageURL string) (string, []string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", nil, fmt.Errorf("parse page URL: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("parse HTML: %w", err)
	}
	links := extractLinks(doc, base)

	content := readableContent(body, base)
	if content == "" {
		content = mainContent(doc)
	}

	markdown, err := c.converter.ConvertString(content)
	if err != nil {
		return "", nil, fmt.Errorf("convert to markdown: %w", err)
	}
	return cleanMarkdown(markdown), links, nil
}

// readableContent runs the readability extractor and returns the article
// HTML, or empty when extraction fails or finds nothing usable.
func readableContent(body []byte, base *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(body), base)
	if err != nil {
		return ""
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return ""
	}
	return article.Content
}

// mainContent renders the document's main content region as HTML. It
// prefers semantic containers and falls back to the cleaned body.
func mainContent(doc *html.Node) string {
	for _, selector := range []string{"main", "article"} {
		if node := findElement(doc, selector); node != nil {
			return renderNode(node)
		}
	}
	if node := findByAttr(doc, "role", "main"); node != nil {
		return renderNode(node)
	}

	removeElements(doc, "script", "style", "nav", "header", "footer", "aside", "noscript")
	if body := findElement(doc, "body"); body != nil {
		return renderNode(body)
	}
	return renderNode(doc)
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findByAttr(n *html.Node, key, val string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == key && attr.Val == val {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByAttr(c, key, val); found != nil {
			return found
		}
	}
	return nil
}

func removeElements(n *html.Node, tags ...string) {
	remove := make(map[string]bool, len(tags))
	for _, tag := range tags {
		remove[tag] = true
	}
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		c := node.FirstChild
		for c != nil {
			next := c.NextSibling
			if c.Type == html.ElementNode && remove[c.Data] {
				node.RemoveChild(c)
			} else {
				walk(c)
			}
			c = next
		}
	}
	walk(n)
}

func renderNode(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// extractLinks collects the href of every anchor, resolved against the
// base URL. Fragments, mailto and javascript links are dropped.
func extractLinks(doc *html.Node, base *url.URL) []string {
	var links []string
	seen := make(map[string]bool)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.TrimSpace(attr.Val)
				if href == "" || strings.HasPrefix(href, "#") ||
					strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
					continue
				}
				resolved, err := base.Parse(href)
				if err != nil {
					continue
				}
				if resolved.Scheme != "http" && resolved.Scheme != "https" {
					continue
				}
				resolved.Fragment = ""
				link := resolved.String()
				if !seen[link] {
					seen[link] = true
					links = append(links, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

var excessNewlines = regexp.MustCompile(`\n{3,}`)

func cleanMarkdown(markdown string) string {
	markdown = excessNewlines.ReplaceAllString(markdown, "\n\n")
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
