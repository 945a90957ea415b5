package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteLinks(t *testing.T) {
	tests := []struct {
		name    string
		content string
		pages   *PageMap
		want    string
	}{
		{
			name:    "basic",
			content: "Check [the overview](overview.md) for more info.",
			pages:   PageMapOf("overview.md", "overview"),
			want:    "Check [the overview](overview) for more info.",
		},
		{
			name:    "anchor preserved",
			content: "See [installation](installation.md#quick-start) guide.",
			pages:   PageMapOf("installation.md", "installation"),
			want:    "See [installation](installation#quick-start) guide.",
		},
		{
			name:    "external untouched",
			content: "Visit [GitHub](https://github.com) or [mail](mailto:dev@example.com).",
			pages:   NewPageMap(),
			want:    "Visit [GitHub](https://github.com) or [mail](mailto:dev@example.com).",
		},
		{
			name:    "same page anchor untouched",
			content: "Jump to [usage](#usage).",
			pages:   NewPageMap(),
			want:    "Jump to [usage](#usage).",
		},
		{
			name:    "image untouched",
			content: "![logo](img/logo.md)",
			pages:   PageMapOf("img/logo.md", "img-logo"),
			want:    "![logo](img/logo.md)",
		},
		{
			name:    "asset untouched",
			content: "Download [the diagram](static/arch.svg).",
			pages:   NewPageMap(),
			want:    "Download [the diagram](static/arch.svg).",
		},
		{
			name:    "landing page",
			content: "Back to [start](index.md).",
			pages:   NewPageMap(),
			want:    "Back to [start](Home).",
		},
		{
			name:    "nested path resolves by suffix",
			content: "See [the reference](../api/reference.md).",
			pages:   PageMapOf("docs/api/reference.md", "docs-api-reference"),
			want:    "See [the reference](docs-api-reference).",
		},
		{
			name:    "unknown page uses stem",
			content: "See [guide](guides/setup.md).",
			pages:   NewPageMap(),
			want:    "See [guide](setup).",
		},
		{
			name:    "link title kept",
			content: `See [overview](overview.md "Overview page").`,
			pages:   PageMapOf("overview.md", "overview"),
			want:    `See [overview](overview "Overview page").`,
		},
		{
			name:    "dotted module page resolves by suffix",
			content: "See [build](yardang.build.md).",
			pages:   PageMapOf("api/yardang.build.md", "api-yardang.build"),
			want:    "See [build](api-yardang.build).",
		},
		{
			name:    "dotted module page with anchor",
			content: "[u](pkg.utils.md#x)",
			pages:   PageMapOf("pkg.utils.md", "pkg.utils"),
			want:    "[u](pkg.utils#x)",
		},
		{
			name:    "unknown dotted page keeps full stem",
			content: "[m](api/pkg.models.md)",
			pages:   NewPageMap(),
			want:    "[m](pkg.models)",
		},
		{
			name:    "dotted name without md extension is an asset",
			content: "[data](pkg.utils)",
			pages:   PageMapOf("pkg.utils.md", "pkg.utils"),
			want:    "[data](pkg.utils)",
		},
		{
			name:    "degenerate target unchanged",
			content: "[here](./) and [there](.md)",
			pages:   NewPageMap(),
			want:    "[here](./) and [there](.md)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteLinks(tt.content, tt.pages))
		})
	}
}

func TestRewriteLinksMatchTiers(t *testing.T) {
	t.Run("exact match beats earlier suffix match", func(t *testing.T) {
		pages := PageMapOf("docs/overview.md", "docs-overview", "overview.md", "overview")
		assert.Equal(t, "[o](overview)", RewriteLinks("[o](overview.md)", pages))
	})

	t.Run("containment is the last resort", func(t *testing.T) {
		pages := PageMapOf("overview.md", "overview", "docs/api/index.md", "docs-api")
		assert.Equal(t, "[a](docs-api)", RewriteLinks("[a](api)", pages))
	})

	t.Run("first entry in insertion order wins", func(t *testing.T) {
		pages := PageMapOf("a/guide.md", "a-guide", "b/guide.md", "b-guide")
		assert.Equal(t, "[g](a-guide)", RewriteLinks("[g](guide.md)", pages))
	})
}

func TestRewriteLinksIsStableOnRewrittenContent(t *testing.T) {
	pages := PageMapOf("overview.md", "overview", "docs/api/reference.md", "docs-api-reference")
	once := RewriteLinks("[o](overview.md) [r](docs/api/reference.md#top)", pages)
	assert.Equal(t, "[o](overview) [r](docs-api-reference#top)", once)
	assert.Equal(t, once, RewriteLinks(once, pages))
}
