package wiki

import (
	"path"
	"regexp"
	"strings"
)

var toctreeBlockPattern = regexp.MustCompile("(?s)```\\{toctree\\}.*?```")

// ToctreePages lists the documents referenced by MyST toctree directives in
// content, in order. Entries without an extension get ".md"; external and
// "Title <target>" entries resolve to their target.
func ToctreePages(content string) []string {
	var pages []string
	for _, block := range toctreeBlockPattern.FindAllString(content, -1) {
		lines := strings.Split(block, "\n")
		inOptions := false
		for i, line := range lines {
			line = strings.TrimSpace(line)
			switch {
			case i == 0 || strings.HasPrefix(line, "```"):
				continue
			case line == "---":
				inOptions = !inOptions
				continue
			case inOptions || line == "" || strings.HasPrefix(line, ":"):
				continue
			}
			if target := toctreeTarget(line); target != "" {
				pages = append(pages, target)
			}
		}
	}
	return pages
}

func toctreeTarget(entry string) string {
	if open := strings.LastIndex(entry, "<"); open >= 0 && strings.HasSuffix(entry, ">") {
		entry = entry[open+1 : len(entry)-1]
	}
	if entry == "" || entry == "self" || isExternalTarget(entry) || strings.ContainsAny(entry, "*?") {
		return ""
	}
	if path.Ext(entry) == "" {
		entry += markdownExt
	}
	return entry
}
