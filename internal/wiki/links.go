package wiki

import (
	"path"
	"regexp"
	"strings"
)

var (
	inlineLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	// Short alphanumeric extensions mark assets (.png, .svg, .pdf, .ipynb) rather than pages.
	assetExtPattern = regexp.MustCompile(`^\.[A-Za-z][A-Za-z0-9]{0,4}$`)
)

// RewriteLinks retargets inline Markdown links at flat wiki page names.
// External links, same-page anchors, images and asset links are left untouched.
func RewriteLinks(content string, pages *PageMap) string {
	matches := inlineLinkPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var out strings.Builder
	out.Grow(len(content))
	last := 0
	for _, m := range matches {
		out.WriteString(content[last:m[0]])
		last = m[1]

		isImage := m[0] > 0 && content[m[0]-1] == '!'
		if isImage {
			out.WriteString(content[m[0]:m[1]])
			continue
		}

		text := content[m[2]:m[3]]
		target, ok := rewriteTarget(content[m[4]:m[5]], pages)
		if !ok {
			out.WriteString(content[m[0]:m[1]])
			continue
		}
		out.WriteByte('[')
		out.WriteString(text)
		out.WriteString("](")
		out.WriteString(target)
		out.WriteByte(')')
	}
	out.WriteString(content[last:])
	return out.String()
}

// rewriteTarget maps a link destination to a page name, keeping any fragment
// and link title. It reports false when the link must stay as written.
func rewriteTarget(raw string, pages *PageMap) (string, bool) {
	dest, title := raw, ""
	if i := strings.IndexAny(raw, " \t"); i >= 0 {
		dest, title = raw[:i], raw[i:]
	}
	if dest == "" || isExternalTarget(dest) {
		return "", false
	}

	pathPart, fragment, hasFragment := strings.Cut(dest, "#")
	if isAssetPath(pathPart) {
		return "", false
	}
	pathPart = strings.TrimSuffix(pathPart, markdownExt)

	linkPath := normalizeLinkPath(pathPart)
	if linkPath == "" {
		return "", false
	}

	name := WikiName(linkPath + markdownExt)
	if mapped, ok := resolvePage(linkPath, pages); ok {
		name = mapped
	}
	if hasFragment {
		name += "#" + fragment
	}
	return name + title, true
}

// isAssetPath reports whether a link path names a non-page file. Paths ending
// in .md are always pages, even when their stem contains dots (pkg.utils.md).
func isAssetPath(p string) bool {
	if strings.HasSuffix(p, markdownExt) {
		return false
	}
	return assetExtPattern.MatchString(path.Ext(p))
}

func isExternalTarget(dest string) bool {
	return strings.HasPrefix(dest, "http://") ||
		strings.HasPrefix(dest, "https://") ||
		strings.HasPrefix(dest, "mailto:") ||
		strings.HasPrefix(dest, "#") ||
		strings.Contains(dest, "://")
}

// normalizeLinkPath drops "./", parent traversals and a leading slash; the flat
// namespace makes them meaningless.
func normalizeLinkPath(p string) string {
	p = path.Clean(p)
	for strings.HasPrefix(p, "../") {
		p = p[len("../"):]
	}
	p = strings.TrimPrefix(p, "/")
	if p == "." || p == ".." || p == "" {
		return ""
	}
	return p
}

// resolvePage finds the page a link path refers to. Entries are searched in
// insertion order, first by exact path, then by path suffix, then by containment.
func resolvePage(linkPath string, pages *PageMap) (string, bool) {
	withExt := linkPath + markdownExt
	matchers := []func(key string) bool{
		func(key string) bool { return key == withExt || key == linkPath },
		func(key string) bool { return strings.HasSuffix(key, "/"+withExt) },
		func(key string) bool { return strings.Contains(key, linkPath) },
	}
	for _, match := range matchers {
		var found string
		var ok bool
		pages.Range(func(key, name string) bool {
			if match(key) {
				found, ok = name, true
				return false
			}
			return true
		})
		if ok {
			return found, true
		}
	}
	return "", false
}
