package wiki

import "regexp"

// CodeRepairer restores line structure inside a fenced code block that the
// Markdown builder collapsed onto a single line.
type CodeRepairer interface {
	RepairCode(lang, code string) string
}

// HeuristicCodeRepairer splits collapsed code at runs of spaces that precede
// statement keywords, mapping keys, list items, or a run of 4+ spaces.
// It is best effort and does not parse the language.
type HeuristicCodeRepairer struct{}

// Only spaces and tabs count as a collapse run, so code that still has its
// newlines is left alone.
var codeSplitRules = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	// Closing bracket or quote followed by a statement.
	{regexp.MustCompile(`([)\]"'])[ \t]{2,}(def |class |import |from |with |if |elif |else:|for |while |return |raise |try:|except|finally:|#|@\w)`), "${1}\n${2}"},
	// Identifier followed by a statement.
	{regexp.MustCompile(`(\w)[ \t]{2,}(def |class |import |from |with |if |for |while |return |#)`), "${1}\n${2}"},
	// Value followed by the next mapping key.
	{regexp.MustCompile(`(\]|"|'|\w)[ \t]{2,}(\w+:)`), "${1}\n${2}"},
	// List item followed by another item or a key.
	{regexp.MustCompile(`(-[ \t]+\S[^\n]*?)[ \t]{2,}(-[ \t]+|\w+:)`), "${1}\n${2}"},
	// Anything separated by a wide gap.
	{regexp.MustCompile(`(\S)[ \t]{4,}(\S)`), "${1}\n${2}"},
}

// maxSplitRounds bounds re-application of a rule; each round removes at least one gap.
const maxSplitRounds = 64

// RepairCode implements CodeRepairer.
func (HeuristicCodeRepairer) RepairCode(_ string, code string) string {
	for _, rule := range codeSplitRules {
		for range maxSplitRounds {
			next := rule.pattern.ReplaceAllString(code, rule.repl)
			if next == code {
				break
			}
			code = next
		}
	}
	return code
}
