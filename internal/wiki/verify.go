package wiki

import (
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"git.home.luguber.info/inful/docwiki/internal/markdown"
	werrors "git.home.luguber.info/inful/docwiki/internal/wiki/errors"
)

// DanglingLink is an internal link whose target page does not exist.
type DanglingLink struct {
	Page   string
	Target string
}

func (d DanglingLink) String() string {
	return d.Page + " -> " + d.Target
}

// VerifyLinks reports internal links in the root pages of fsys that point at
// no existing page. Page names compare case-insensitively, as the wiki does.
// Unreadable pages are skipped.
func VerifyLinks(fsys billy.Filesystem) ([]DanglingLink, error) {
	infos, err := fsys.ReadDir(fsRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", werrors.ErrTreeWalkFailed, err)
	}

	existing := make(map[string]bool, len(infos))
	var docs []string
	for _, info := range infos {
		if info.IsDir() || path.Ext(info.Name()) != markdownExt {
			continue
		}
		existing[strings.ToLower(strings.TrimSuffix(info.Name(), markdownExt))] = true
		docs = append(docs, info.Name())
	}

	parser := markdown.NewParser()
	var dangling []DanglingLink
	for _, doc := range docs {
		data, err := util.ReadFile(fsys, doc)
		if err != nil {
			continue
		}
		for _, link := range parser.Links(data) {
			if !link.IsInternal() {
				continue
			}
			if isAssetPath(link.Page()) {
				continue
			}
			target := strings.TrimSuffix(link.Page(), markdownExt)
			if !existing[strings.ToLower(target)] {
				dangling = append(dangling, DanglingLink{Page: strings.TrimSuffix(doc, markdownExt), Target: link.Destination})
			}
		}
	}
	return dangling, nil
}
