package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docqa"
)

// Ensure Detector implements docqa.FrameworkDetector at compile time.
var _ docqa.FrameworkDetector = (*Detector)(nil)

// framework describes how to recognise a documentation generator and where
// it puts the page body.
type framework struct {
	name docqa.Framework

	// generator is matched against <meta name="generator">.
	generator string

	// markers are selectors unique to the framework's theme.
	markers []string

	// content lists body containers, most specific first.
	content []string
}

// frameworks is checked in order. VitePress precedes VuePress because it
// reuses some VuePress class names.
var frameworks = []framework{
	{
		name:      docqa.FrameworkDocusaurus,
		generator: "docusaurus",
		markers:   []string{"#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container"},
		content:   []string{".theme-doc-markdown", "article"},
	},
	{
		name:      docqa.FrameworkMkDocs,
		generator: "mkdocs",
		markers:   []string{"[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"},
		content:   []string{".md-content__inner", ".md-content"},
	},
	{
		name:      docqa.FrameworkSphinx,
		generator: "sphinx",
		markers:   []string{".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar"},
		content:   []string{"[role='main']", ".rst-content", ".document .body"},
	},
	{
		name:      docqa.FrameworkVitePress,
		generator: "vitepress",
		markers:   []string{"#VPContent", ".VPDoc", ".VPDocAsideOutline"},
		content:   []string{".vp-doc", ".VPDoc"},
	},
	{
		name:      docqa.FrameworkVuePress,
		generator: "vuepress",
		markers:   []string{".theme-default-content", ".sidebar-links", ".vuepress-navbar"},
		content:   []string{".theme-default-content"},
	},
	{
		name:      docqa.FrameworkGitBook,
		generator: "gitbook",
		markers:   []string{"[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']"},
		content:   []string{"main"},
	},
	{
		name:      docqa.FrameworkNextra,
		generator: "nextra",
		markers:   []string{".nextra-navbar", ".nextra-sidebar", ".nextra-toc"},
		content:   []string{"article", "main"},
	},
}

// genericContent is used when no framework container matches.
var genericContent = []string{"article", "main"}

// Detector identifies documentation frameworks from HTML content.
// It checks meta generator tags first, then framework-specific CSS classes,
// data attributes and structural markers.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified framework.
// Returns FrameworkUnknown if the framework cannot be determined.
func (d *Detector) Detect(html string) docqa.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return docqa.FrameworkUnknown
	}
	return d.DetectDocument(doc)
}

// DetectDocument is Detect for an already parsed document.
func (d *Detector) DetectDocument(doc *goquery.Document) docqa.Framework {
	if generator := metaGenerator(doc); generator != "" {
		for _, fw := range frameworks {
			if strings.Contains(generator, fw.generator) {
				return fw.name
			}
		}
	}

	for _, fw := range frameworks {
		for _, sel := range fw.markers {
			if doc.Find(sel).Length() > 0 {
				return fw.name
			}
		}
	}

	if hasGitBookClasses(doc) {
		return docqa.FrameworkGitBook
	}

	return docqa.FrameworkUnknown
}

// contentSelectors returns the body containers to try for a framework,
// ending with the generic ones.
func contentSelectors(name docqa.Framework) []string {
	for _, fw := range frameworks {
		if fw.name == name {
			return append(append([]string{}, fw.content...), genericContent...)
		}
	}
	return genericContent
}

func metaGenerator(doc *goquery.Document) string {
	content, _ := doc.Find("meta[name='generator']").Last().Attr("content")
	return strings.ToLower(content)
}

// hasGitBookClasses reports whether the html element carries at least two
// of GitBook's theme classes.
func hasGitBookClasses(doc *goquery.Document) bool {
	class, _ := doc.Find("html").Attr("class")
	count := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(class, c) {
			count++
		}
	}
	return count >= 2
}
