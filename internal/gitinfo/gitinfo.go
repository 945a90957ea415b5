// Package gitinfo reads repository metadata from the local git checkout.
package gitinfo

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
)

// DefaultRemote is the remote consulted by RepositoryURL.
const DefaultRemote = "origin"

// ErrNoRemote indicates the checkout has no usable remote URL.
var ErrNoRemote = errors.New("no git remote configured")

// RepositoryURL returns the browsable https URL of the origin remote of the
// repository containing dir.
func RepositoryURL(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open git repository at %s: %w", dir, err)
	}
	remote, err := repo.Remote(DefaultRemote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNoRemote, DefaultRemote)
		}
		return "", fmt.Errorf("read remote %s: %w", DefaultRemote, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: %s has no URL", ErrNoRemote, DefaultRemote)
	}
	normalized := NormalizeURL(urls[0])
	if normalized == "" {
		return "", fmt.Errorf("%w: %s is a local path", ErrNoRemote, DefaultRemote)
	}
	return normalized, nil
}

// NormalizeURL converts a clone URL into a browsable https URL: SSH and
// git:// forms become https, credentials and the .git suffix are dropped.
// Local paths yield "".
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "git@") {
		host, path, ok := strings.Cut(strings.TrimPrefix(raw, "git@"), ":")
		if !ok {
			return ""
		}
		raw = "https://" + host + "/" + path
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	switch u.Scheme {
	case "http", "https":
	case "ssh", "git", "git+ssh":
		u.Scheme = "https"
	default:
		return ""
	}
	u.User = nil
	u.Host = u.Hostname()
	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), ".git")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
