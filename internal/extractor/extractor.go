// Package extractor turns raw page HTML into the structured
// model.PageContent the rest of the pipeline consumes.
package extractor

import (
	"net/url"
	"strconv"
	"strings"

	htmlmd "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"keywordscope/internal/model"
)

// removedTags are stripped outright, subtree and all.
var removedTags = "script, style, noscript, iframe, nav, footer, header, aside"

// noiseClassTerms identify boilerplate containers by a substring match
// against their class or id attribute.
var noiseClassTerms = []string{
	"sidebar", "menu", "navigation", "cookie", "popup",
	"modal", "advertisement", "ads", "comments",
}

// Extract parses rawHTML (as seen at pageURL) into a PageContent.
func Extract(rawHTML, pageURL string) model.PageContent {
	cleanHTML := boilerplateStrip(rawHTML, pageURL)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cleanHTML))
	if err != nil {
		return model.PageContent{URL: pageURL}
	}

	removeNoise(doc)

	// Title and meta description live in <head>, which readability's
	// article content does not carry, so they are read from the raw page.
	headDoc := doc
	if rawDoc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML)); err == nil {
		removeNoise(rawDoc)
		headDoc = rawDoc
	}
	title := extractTitle(headDoc)
	metaDescription := extractMetaDescription(headDoc)
	headings := extractHeadings(doc)
	paragraphs := extractParagraphs(doc)
	listItems := extractListItems(doc)
	anchorTexts := extractAnchorTexts(doc)
	imageAlts := extractImageAlts(doc)

	markdown := renderMarkdown(rawHTML, pageURL)

	anchorsForCount := anchorTexts
	if len(anchorsForCount) > 50 {
		anchorsForCount = anchorsForCount[:50]
	}

	wordCount := countWords(title, metaDescription, flattenHeadings(headings), paragraphs, listItems, anchorsForCount, imageAlts)

	return model.PageContent{
		URL:             pageURL,
		Title:           title,
		MetaDescription: metaDescription,
		Headings:        headings,
		Paragraphs:      paragraphs,
		ListItems:       listItems,
		AnchorTexts:     anchorTexts,
		ImageAlts:       imageAlts,
		Markdown:        markdown,
		WordCount:       wordCount,
	}
}

// boilerplateStrip runs go-readability's boilerplate/ad/nav removal
// pass before field extraction. Falls back to the raw HTML on any
// parse failure — readability only ever improves signal, it is never
// the sole source of truth.
func boilerplateStrip(rawHTML, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return rawHTML
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return rawHTML
	}
	return article.Content
}

func removeNoise(doc *goquery.Document) {
	doc.Find(removedTags).Remove()

	var noisy []*goquery.Selection
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		combined := strings.ToLower(class + " " + id)
		for _, term := range noiseClassTerms {
			if strings.Contains(combined, term) {
				noisy = append(noisy, s)
				return
			}
		}
	})
	for _, s := range noisy {
		s.Remove()
	}
}

func extractTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func extractMetaDescription(doc *goquery.Document) string {
	if d := strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")); d != "" {
		return d
	}
	return strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
}

func extractHeadings(doc *goquery.Document) map[int][]string {
	headings := make(map[int][]string, 3)
	for level := 1; level <= 3; level++ {
		var seen []string
		seenSet := make(map[string]bool)
		doc.Find("h" + strconv.Itoa(level)).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text == "" || seenSet[text] {
				return
			}
			seenSet[text] = true
			seen = append(seen, text)
		})
		if len(seen) > 0 {
			headings[level] = seen
		}
	}
	return headings
}

func extractParagraphs(doc *goquery.Document) []string {
	var out []string
	doc.Find("p, article, section, main").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if wordCountOf(text) >= 10 {
			out = append(out, text)
		}
	})
	return out
}

func extractListItems(doc *goquery.Document) []string {
	var out []string
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > 10 {
			out = append(out, text)
		}
	})
	return out
}

func extractAnchorTexts(doc *goquery.Document) []string {
	var out []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		text := strings.TrimSpace(s.Text())
		if len(text) <= 3 || seen[text] {
			return
		}
		seen[text] = true
		out = append(out, text)
	})
	return out
}

func extractImageAlts(doc *goquery.Document) []string {
	var out []string
	doc.Find("img[alt]").Each(func(_ int, s *goquery.Selection) {
		alt := strings.TrimSpace(s.AttrOr("alt", ""))
		if len(alt) > 3 {
			out = append(out, alt)
		}
	})
	return out
}

func renderMarkdown(rawHTML, pageURL string) string {
	hostname := ""
	if u, err := url.Parse(pageURL); err == nil {
		hostname = u.Hostname()
	}
	converter := htmlmd.NewConverter(hostname, true, nil)
	md, err := converter.ConvertString(rawHTML)
	if err != nil {
		return ""
	}
	return md
}

func flattenHeadings(headings map[int][]string) []string {
	var out []string
	for level := 1; level <= 3; level++ {
		out = append(out, headings[level]...)
	}
	return out
}

func countWords(fields ...any) int {
	total := 0
	for _, f := range fields {
		switch v := f.(type) {
		case string:
			total += wordCountOf(v)
		case []string:
			for _, s := range v {
				total += wordCountOf(s)
			}
		}
	}
	return total
}

func wordCountOf(s string) int {
	return len(strings.Fields(s))
}
