package wiki

import (
	"crypto/md5" //nolint:gosec // name disambiguation, not security
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"git.home.luguber.info/inful/docwiki/internal/logfields"
	werrors "git.home.luguber.info/inful/docwiki/internal/wiki/errors"
)

// artifactMarkers identify build byproducts that are deleted rather than published.
var artifactMarkers = []string{"jupyter_execute", "_build", ".ipynb_checkpoints", "__pycache__"}

const (
	truncationReserve = 10
	hashSuffixLen     = 8
	fsRoot            = "/"
)

// FlattenOptions configures Flatten.
type FlattenOptions struct {
	// MaxNameLength bounds generated page names. Zero selects DefaultMaxNameLength.
	MaxNameLength int
}

// Move records a document relocated to the root.
type Move struct {
	From string
	To   string
}

// Rename records a page name that was suffixed because the wanted name was taken.
type Rename struct {
	Path   string
	Wanted string
	Name   string
}

// FlattenResult is the outcome of flattening one output directory.
type FlattenResult struct {
	Pages   *PageMap
	Moves   []Move
	Deleted []string
	Renamed []Rename
	// Errors holds per-document move failures; those documents are absent from Pages.
	Errors []error
}

// Flatten moves every retained Markdown document in fsys to the root under a
// unique flat name, deletes build artifacts, and removes emptied directories.
// Only a failure to enumerate the tree is returned as an error.
func Flatten(fsys billy.Filesystem, opts FlattenOptions) (*FlattenResult, error) {
	maxLen := opts.MaxNameLength
	if maxLen <= 0 {
		maxLen = DefaultMaxNameLength
	}

	docs, dirs, err := scanTree(fsys)
	if err != nil {
		return nil, err
	}

	res := &FlattenResult{Pages: NewPageMap()}
	claims := make(map[string]string) // lower-case page name -> owning relative path
	var retained []string
	for _, rel := range docs {
		if isBuildArtifact(rel) {
			if rmErr := fsys.Remove(rel); rmErr != nil {
				slog.Warn("Failed to delete build artifact", logfields.Path(rel), logfields.Error(rmErr))
				continue
			}
			res.Deleted = append(res.Deleted, rel)
			continue
		}
		retained = append(retained, rel)
		if isRootDoc(rel) {
			claims[strings.ToLower(stem(rel))] = rel
		}
	}

	for _, rel := range retained {
		if isRootDoc(rel) {
			flattenRootDoc(rel, res, claims)
			continue
		}
		flattenNestedDoc(fsys, rel, maxLen, res, claims)
	}

	removeEmptyDirs(fsys, dirs)
	return res, nil
}

func flattenRootDoc(rel string, res *FlattenResult, claims map[string]string) {
	name := stem(rel)
	if isReserved(name) {
		return
	}
	if IsLandingStem(name) {
		owner, taken := claims[strings.ToLower(LandingPage)]
		if !taken || owner == rel {
			name = LandingPage
			claims[strings.ToLower(LandingPage)] = rel
		}
	}
	res.Pages.Set(rel, name)
}

func flattenNestedDoc(fsys billy.Filesystem, rel string, maxLen int, res *FlattenResult, claims map[string]string) {
	wanted := truncateName(nestedName(rel), maxLen)
	name := disambiguate(wanted, rel, claims)
	if name != wanted {
		res.Renamed = append(res.Renamed, Rename{Path: rel, Wanted: wanted, Name: name})
		slog.Info("Renamed page to avoid collision", logfields.Path(rel), logfields.Page(name))
	}

	dest := pageFile(name)
	if err := fsys.Rename(rel, dest); err != nil {
		moveErr := fmt.Errorf("move %s to %s: %w", rel, dest, err)
		slog.Warn("Failed to move document", logfields.Path(rel), logfields.Target(dest), logfields.Error(err))
		res.Errors = append(res.Errors, moveErr)
		return
	}
	claims[strings.ToLower(name)] = rel
	res.Pages.Set(rel, name)
	res.Moves = append(res.Moves, Move{From: rel, To: dest})
}

// nestedName joins the parent segments of rel with '-', appending the stem
// unless the document is a directory's index or readme.
func nestedName(rel string) string {
	segments := strings.Split(rel, "/")
	parents := segments[:len(segments)-1]
	last := stem(rel)
	if IsLandingStem(last) {
		return strings.Join(parents, "-")
	}
	return strings.Join(append(parents, last), "-")
}

// truncateName bounds name to maxLen characters, replacing the tail with a
// hash of the full name. Lengths count runes so multi-byte names stay valid UTF-8.
func truncateName(name string, maxLen int) string {
	if utf8.RuneCountInString(name) <= maxLen {
		return name
	}
	keep := max(maxLen-truncationReserve, 0)
	return string([]rune(name)[:keep]) + "-" + shortHash(name)
}

// disambiguate returns wanted if no other document claims it, otherwise a
// deterministic variant derived from rel.
func disambiguate(wanted, rel string, claims map[string]string) string {
	free := func(name string) bool {
		owner, taken := claims[strings.ToLower(name)]
		return !taken || owner == rel
	}
	if free(wanted) {
		return wanted
	}
	hashed := wanted + "-" + shortHash(rel)
	if free(hashed) {
		return hashed
	}
	for n := 2; ; n++ {
		candidate := hashed + "-" + strconv.Itoa(n)
		if free(candidate) {
			return candidate
		}
	}
}

func shortHash(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec // name disambiguation, not security
	return hex.EncodeToString(sum[:])[:hashSuffixLen]
}

func isBuildArtifact(rel string) bool {
	for _, marker := range artifactMarkers {
		if strings.Contains(rel, marker) {
			return true
		}
	}
	return false
}

func isRootDoc(rel string) bool {
	return !strings.Contains(rel, "/")
}

// scanTree lists Markdown documents (root documents first, then lexical order)
// and every directory below the root, using slash-separated relative paths.
func scanTree(fsys billy.Filesystem) (docs, dirs []string, err error) {
	walkErr := util.Walk(fsys, fsRoot, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(filepath.ToSlash(p), fsRoot)
		if rel == "" {
			return nil
		}
		if info.IsDir() {
			dirs = append(dirs, rel)
			return nil
		}
		if path.Ext(rel) == markdownExt {
			docs = append(docs, rel)
		}
		return nil
	})
	if walkErr != nil {
		return nil, nil, fmt.Errorf("%w: %w", werrors.ErrTreeWalkFailed, walkErr)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		ri, rj := isRootDoc(docs[i]), isRootDoc(docs[j])
		if ri != rj {
			return ri
		}
		return docs[i] < docs[j]
	})
	return docs, dirs, nil
}

// removeEmptyDirs removes emptied directories deepest first. Failures are ignored.
func removeEmptyDirs(fsys billy.Filesystem, dirs []string) {
	ordered := append([]string(nil), dirs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := strings.Count(ordered[i], "/"), strings.Count(ordered[j], "/")
		if di != dj {
			return di > dj
		}
		return ordered[i] > ordered[j]
	})
	for _, dir := range ordered {
		entries, err := fsys.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := fsys.Remove(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Debug("Failed to remove empty directory", logfields.Dir(dir), logfields.Error(err))
		}
	}
}
