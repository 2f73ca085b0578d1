package composer

import (
	"strings"

	"github.com/matzehuels/pkgscan/pkg/ordered"
	"github.com/matzehuels/pkgscan/pkg/packages"
)

// vcsURLPrefixes are schemes that already form a complete repository URL.
var vcsURLPrefixes = []string{
	"https://",
	"http://",
	"git://",
	"git+git://",
	"hg+https://",
	"hg+http://",
	"git+https://",
	"git+http://",
	"svn+https://",
	"svn+http://",
	"svn://",
}

// sshHosters are host substrings whose git@ URLs have an HTTPS equivalent.
var sshHosters = []string{"github", "bitbucket", "gitlab"}

// hosterURLs map "hoster:" shorthands to their base URL.
var hosterURLs = map[string]string{
	"bitbucket": "https://bitbucket.org/",
	"github":    "https://github.com/",
	"gitlab":    "https://gitlab.com/",
}

// ResolveRepoURL expands repository shorthands into full URLs. Inputs that
// are already URLs, and shorthands it cannot resolve, are returned as is.
//
//	git@github.com:owner/repo.git  → https://github.com/owner/repo.git
//	github:owner/repo              → https://github.com/owner/repo
//	bitbucket:owner/repo           → https://bitbucket.org/owner/repo
//	gitlab:owner/repo              → https://gitlab.com/owner/repo
//	owner/repo                     → https://github.com/owner/repo
//	gist:11081aaa281               → gist:11081aaa281
//	git@example.com:owner/repo.git → git@example.com:owner/repo.git
func ResolveRepoURL(raw string) string {
	for _, prefix := range vcsURLPrefixes {
		if strings.HasPrefix(raw, prefix) {
			return raw
		}
	}

	if strings.HasPrefix(raw, "git@") {
		_, hostPath, _ := strings.Cut(raw, "@")
		host, repo, ok := strings.Cut(hostPath, ":")
		if !ok {
			return raw
		}
		for _, h := range sshHosters {
			if strings.Contains(host, h) {
				return "https://" + host + "/" + repo
			}
		}
		return raw
	}

	if strings.HasPrefix(raw, "gist:") {
		return raw
	}

	if hoster, repo, ok := strings.Cut(raw, ":"); ok {
		if base, known := hosterURLs[hoster]; known {
			return base + repo
		}
	}

	if parts := strings.Split(raw, "/"); len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return "https://github.com/" + raw
	}
	return raw
}

// vcsTool infers the VCS tool from a repository URL scheme.
func vcsTool(url string) string {
	switch {
	case strings.HasPrefix(url, "svn"):
		return packages.VCSSvn
	case strings.HasPrefix(url, "hg"):
		return packages.VCSHg
	case strings.HasPrefix(url, "cvs"):
		return packages.VCSCvs
	default:
		return packages.VCSGit
	}
}

// mapRepositories records the package's VCS repository
// (https://getcomposer.org/doc/04-schema.md#repositories).
//
// A plain string is taken as the repository URL. In a list, only
// descriptors of type "vcs" are considered and the last one wins;
// "composer", "pear" and "package" repositories describe where to fetch
// dependencies from, not where this package lives.
func mapRepositories(v any, pkg *packages.Package) error {
	switch t := v.(type) {
	case string:
		pkg.VCSRepository = ResolveRepoURL(t)
	case []any:
		for _, item := range t {
			repo, ok := item.(*ordered.Map)
			if !ok {
				continue
			}
			if typ, _ := repo.String("type"); typ != "vcs" {
				continue
			}
			url, ok := repo.String("url")
			if !ok {
				continue
			}
			pkg.VCSTool = vcsTool(url)
			pkg.VCSRepository = ResolveRepoURL(url)
		}
	}
	return nil
}
