package docqa

// Framework names the static site generator that produced a page. The
// ingester only logs it; extraction does not depend on it.
type Framework string

const (
	FrameworkUnknown    Framework = ""
	FrameworkDocusaurus Framework = "docusaurus"
	FrameworkGitBook    Framework = "gitbook"
	FrameworkMkDocs     Framework = "mkdocs"
	FrameworkNextra     Framework = "nextra"
	FrameworkSphinx     Framework = "sphinx"
	FrameworkVitePress  Framework = "vitepress"
	FrameworkVuePress   Framework = "vuepress"
)

// String returns the framework name, or "(unknown)" for FrameworkUnknown.
func (f Framework) String() string {
	if f == FrameworkUnknown {
		return "(unknown)"
	}
	return string(f)
}

// FrameworkDetector guesses a page's Framework from its raw HTML. It
// returns FrameworkUnknown when no generator signature matches.
type FrameworkDetector interface {
	Detect(html string) Framework
}
