package wiki

import (
	"regexp"
	"strconv"
)

// Pass is one text-to-text repair applied by the Cleaner.
type Pass struct {
	Name  string
	Apply func(content string) string
}

// Cleaner repairs formatting defects left by the Sphinx Markdown builder.
// Passes run in order; each is a no-op on content that is already clean.
type Cleaner struct {
	passes []Pass
}

const minImageWidth = 16

var (
	headingAnchorPattern = regexp.MustCompile(`<a id="[^"]+"></a>\s*`)
	widthAttrPattern     = regexp.MustCompile(`width="(\d+)"`)
	divBlockPattern      = regexp.MustCompile(`(?s)<div[^>]*>.*?</div>`)
	tagGapPattern        = regexp.MustCompile(`>\s+<`)
	collapsedBadgePat    = regexp.MustCompile(`(\]\([^()\s]*\))\s*\[!\[`)
	codeFencePattern     = regexp.MustCompile("(?s)```(\\w*)\\n?(.*?)\\n?```")
	excessNewlinePattern = regexp.MustCompile(`\n{4,}`)
	blankLinePattern     = regexp.MustCompile(`(?m)^[ \t]+$`)
)

// NewCleaner builds the standard pass sequence. A nil repairer selects
// HeuristicCodeRepairer.
func NewCleaner(repairer CodeRepairer) *Cleaner {
	if repairer == nil {
		repairer = HeuristicCodeRepairer{}
	}
	return &Cleaner{passes: []Pass{
		{Name: "heading_anchors", Apply: removeHeadingAnchors},
		{Name: "image_widths", Apply: halveImageWidths},
		{Name: "div_blocks", Apply: expandDivBlocks},
		{Name: "badge_lines", Apply: separateBadges},
		{Name: "code_blocks", Apply: func(content string) string { return repairCodeBlocks(content, repairer) }},
		{Name: "blank_runs", Apply: collapseBlankRuns},
		{Name: "whitespace_lines", Apply: emptyWhitespaceLines},
	}}
}

// Passes returns the pass sequence in execution order.
func (c *Cleaner) Passes() []Pass {
	out := make([]Pass, len(c.passes))
	copy(out, c.passes)
	return out
}

// Clean applies every pass to content.
func (c *Cleaner) Clean(content string) string {
	for _, p := range c.passes {
		content = p.Apply(content)
	}
	return content
}

// CleanupMarkdown runs the standard passes with the heuristic code repairer.
func CleanupMarkdown(content string) string {
	return NewCleaner(nil).Clean(content)
}

func removeHeadingAnchors(content string) string {
	return headingAnchorPattern.ReplaceAllString(content, "")
}

// halveImageWidths scales rendered image widths by 50%; the wiki renders them larger.
func halveImageWidths(content string) string {
	return widthAttrPattern.ReplaceAllStringFunc(content, func(attr string) string {
		m := widthAttrPattern.FindStringSubmatch(attr)
		width, err := strconv.Atoi(m[1])
		if err != nil {
			return attr
		}
		return `width="` + strconv.Itoa(max(minImageWidth, width/2)) + `"`
	})
}

func expandDivBlocks(content string) string {
	return divBlockPattern.ReplaceAllStringFunc(content, func(block string) string {
		return tagGapPattern.ReplaceAllString(block, ">\n<")
	})
}

// separateBadges puts each badge that directly follows a link or image on its
// own paragraph. A badge after plain text, including a closing parenthesis, stays inline.
func separateBadges(content string) string {
	return collapsedBadgePat.ReplaceAllString(content, "${1}\n\n[![")
}

func repairCodeBlocks(content string, repairer CodeRepairer) string {
	return codeFencePattern.ReplaceAllStringFunc(content, func(block string) string {
		m := codeFencePattern.FindStringSubmatch(block)
		lang, code := m[1], m[2]
		return "```" + lang + "\n" + repairer.RepairCode(lang, code) + "\n```"
	})
}

func collapseBlankRuns(content string) string {
	return excessNewlinePattern.ReplaceAllString(content, "\n\n\n")
}

func emptyWhitespaceLines(content string) string {
	return blankLinePattern.ReplaceAllString(content, "")
}
