package extractor

import (
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
  <title>Best Running Shoes 2026</title>
  <meta name="description" content="A guide to the best running shoes for every runner in 2026.">
</head>
<body>
  <nav><a href="/shop">Shop</a></nav>
  <header><div id="site-header">Header stuff</div></header>
  <div class="cookie-banner">Accept cookies to continue browsing this site today.</div>
  <main>
    <h1>Best Running Shoes 2026</h1>
    <h2>Trail Running Shoes</h2>
    <h2>Trail Running Shoes</h2>
    <p>Finding the right running shoe can make a huge difference in comfort and performance over long distances.</p>
    <p>Too short.</p>
    <ul>
      <li>Lightweight mesh upper for breathability</li>
      <li>ok</li>
    </ul>
    <img src="/shoe.jpg" alt="Red running shoe on track">
    <img src="/icon.png" alt="x">
    <a href="/reviews">Read our shoe reviews</a>
    <a href="#top">Back</a>
  </main>
  <aside class="sidebar-widget">Related products widget content here.</aside>
  <footer>Copyright 2026</footer>
</body>
</html>`

func TestExtractTitleAndMetaDescription(t *testing.T) {
	pc := Extract(samplePage, "https://example.com/shoes")
	if pc.Title != "Best Running Shoes 2026" {
		t.Fatalf("Title = %q, want %q", pc.Title, "Best Running Shoes 2026")
	}
	if !strings.Contains(pc.MetaDescription, "best running shoes") {
		t.Fatalf("MetaDescription = %q, want to contain guide text", pc.MetaDescription)
	}
}

func TestExtractHeadingsDeduplicated(t *testing.T) {
	pc := Extract(samplePage, "https://example.com/shoes")
	h2 := pc.Headings[2]
	if len(h2) != 1 || h2[0] != "Trail Running Shoes" {
		t.Fatalf("Headings[2] = %v, want single deduplicated entry", h2)
	}
}

func TestExtractParagraphsFiltersShort(t *testing.T) {
	pc := Extract(samplePage, "https://example.com/shoes")
	for _, p := range pc.Paragraphs {
		if p == "Too short." {
			t.Fatalf("expected short paragraph to be filtered out, found: %q", p)
		}
	}
}

func TestExtractListItemsFiltersShort(t *testing.T) {
	pc := Extract(samplePage, "https://example.com/shoes")
	for _, li := range pc.ListItems {
		if li == "ok" {
			t.Fatalf("expected short list item to be filtered out, found: %q", li)
		}
	}
	found := false
	for _, li := range pc.ListItems {
		if strings.Contains(li, "Lightweight mesh upper") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected long list item to survive filtering, got %v", pc.ListItems)
	}
}

func TestExtractAnchorTextsExcludesFragments(t *testing.T) {
	pc := Extract(samplePage, "https://example.com/shoes")
	for _, a := range pc.AnchorTexts {
		if a == "Back" {
			t.Fatalf("anchor linking to a fragment (#top) should be excluded, found: %q", a)
		}
	}
}

func TestExtractImageAltsFiltersShort(t *testing.T) {
	pc := Extract(samplePage, "https://example.com/shoes")
	for _, alt := range pc.ImageAlts {
		if alt == "x" {
			t.Fatalf("expected short alt text to be filtered out, found: %q", alt)
		}
	}
}

func TestExtractWordCountPositive(t *testing.T) {
	pc := Extract(samplePage, "https://example.com/shoes")
	if pc.WordCount <= 0 {
		t.Fatalf("expected positive word count, got %d", pc.WordCount)
	}
}

func TestExtractInvalidHTMLReturnsEmptyContent(t *testing.T) {
	pc := Extract("", "https://example.com/empty")
	if pc.URL != "https://example.com/empty" {
		t.Fatalf("expected URL preserved on empty input, got %q", pc.URL)
	}
}
