package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToctreePages(t *testing.T) {
	content := "# Project\n\n" +
		"```{toctree}\n" +
		"---\n" +
		"caption: Contents\n" +
		"maxdepth: 2\n" +
		"---\n" +
		"docs/src/overview\n" +
		"docs/src/installation.md\n" +
		"API <docs/api/reference>\n" +
		"self\n" +
		"https://example.com\n" +
		"```\n\n" +
		"```{toctree}\n" +
		":hidden:\n" +
		"\n" +
		"notebooks/*\n" +
		"CHANGELOG\n" +
		"```\n"

	assert.Equal(t, []string{
		"docs/src/overview.md",
		"docs/src/installation.md",
		"docs/api/reference.md",
		"CHANGELOG.md",
	}, ToctreePages(content))
}

func TestToctreePagesWithoutDirective(t *testing.T) {
	assert.Empty(t, ToctreePages("# Title\n\n```python\nprint(1)\n```\n"))
}
