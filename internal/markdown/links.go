package markdown

import "strings"

// LinkKind classifies a link-like construct found in a page body.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}

// IsInternal reports whether the link points at another page of the same wiki.
// Same-page anchors and anything with a scheme are not internal.
func (l Link) IsInternal() bool {
	d := l.Destination
	switch {
	case d == "", strings.HasPrefix(d, "#"):
		return false
	case strings.HasPrefix(d, "mailto:"), strings.Contains(d, "://"):
		return false
	}
	return l.Kind == LinkKindInline || l.Kind == LinkKindReferenceDefinition
}

// Page returns the destination without its fragment.
func (l Link) Page() string {
	page, _, _ := strings.Cut(l.Destination, "#")
	return page
}
