package subtitle

import "regexp"

// Markup describes the tags of a subtitle format. The tag expression is
// used to measure text; it never rewrites stored text.
type Markup interface {
	// Tag returns the expression matching a single tag.
	Tag() *regexp.Regexp
}

type regexMarkup struct {
	re *regexp.Regexp
}

func (m regexMarkup) Tag() *regexp.Regexp { return m.re }

// SubRipMarkup matches HTML-style tags and ASS override blocks.
var SubRipMarkup Markup = regexMarkup{regexp.MustCompile(`<[^<>]*>|\{\\[^{}]*\}`)}

// MPL2Markup matches the line-leading style prefixes of MPL2 and
// MicroDVD-style control codes.
var MPL2Markup Markup = regexMarkup{regexp.MustCompile(`(?m)^[/\\_]+|\{[A-Za-z]:[^{}]*\}`)}

// TagRegex returns m's tag expression, or nil when m is nil.
func TagRegex(m Markup) *regexp.Regexp {
	if m == nil {
		return nil
	}
	return m.Tag()
}

// Strip removes all tags matched by re. A nil re returns text unchanged.
func Strip(re *regexp.Regexp, text string) string {
	if re == nil {
		return text
	}
	return re.ReplaceAllString(text, "")
}
