package render

import "regexp"

// Kind is the detected content type of a statement body.
type Kind int

const (
	KindMarkdown Kind = iota
	KindHTML
)

func (k Kind) String() string {
	if k == KindHTML {
		return "html"
	}
	return "markdown"
}

// tagPattern matches an HTML-element opening or closing tag: a letter-led
// name bounded by angle brackets, anywhere in the text.
var tagPattern = regexp.MustCompile(`(?i)</?[a-z][a-z0-9]*(\s[^<>]*)?>`)

// Classify decides whether a statement body is HTML markup or plain/markdown
// text. This is a heuristic, not a parser: a plain-text body containing a
// stray tag-shaped substring (say "<x>") will be misclassified as HTML, and
// markup written without any complete tag will pass as markdown.
func Classify(body string) Kind {
	if tagPattern.MatchString(body) {
		return KindHTML
	}
	return KindMarkdown
}
