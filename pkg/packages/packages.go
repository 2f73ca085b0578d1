package packages

import (
	"strings"

	"github.com/package-url/packageurl-go"
)

// DependencyKind groups dependencies by the scope they are declared for.
type DependencyKind string

const (
	DependencyRuntime DependencyKind = "runtime" // Needed to run the package
	DependencyDev     DependencyKind = "dev"     // Needed only to develop or test it
)

// VCS tools a repository reference can point at.
const (
	VCSGit = "git"
	VCSSvn = "svn"
	VCSHg  = "hg"
	VCSCvs = "cvs"
)

// PartyPerson is the party type for individual people.
const PartyPerson = "person"

// Party is a named entity associated with a package. Nil fields were not
// present in the manifest; an empty string means present but blank.
type Party struct {
	Type  string  `json:"type"`
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	URL   *string `json:"url,omitempty"`
}

// AssertedLicense is a license claim copied verbatim from a manifest.
// It is not validated against any license expression grammar.
type AssertedLicense struct {
	License string `json:"license"`
}

// Dependency is a declared dependency and its version constraint.
type Dependency struct {
	Name              string `json:"name"`
	VersionConstraint string `json:"version_constraint"`
}

// Package holds the metadata recognized from a package manifest.
//
// A Package is built by a single [Handler.Recognize] call and is not
// modified afterwards, so it is safe to share between goroutines once
// returned.
type Package struct {
	Type            string `json:"type"`                       // Handler type (e.g., "phpcomposer")
	PrimaryLanguage string `json:"primary_language,omitempty"` // e.g., "PHP"

	Name        string   `json:"name"`
	Version     string   `json:"version,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	HomepageURL string   `json:"homepage_url,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`

	Location          string   `json:"location"`           // Directory holding the manifest
	MetafileLocations []string `json:"metafile_locations"` // Manifest paths

	Authors          []Party                         `json:"authors,omitempty"`
	AssertedLicenses []AssertedLicense               `json:"asserted_licenses,omitempty"`
	Dependencies     map[DependencyKind][]Dependency `json:"dependencies,omitempty"`

	VCSTool       string `json:"vcs_tool,omitempty"`
	VCSRepository string `json:"vcs_repository,omitempty"`

	SupportContacts []*string `json:"support_contacts,omitempty"`
	BugTrackingURL  string    `json:"bug_tracking_url,omitempty"`
	CodeViewURL     string    `json:"code_view_url,omitempty"`
}

// AddDependencies appends deps to the list for kind, creating it if needed.
// Entries already recorded for kind are kept.
func (p *Package) AddDependencies(kind DependencyKind, deps []Dependency) {
	if p.Dependencies == nil {
		p.Dependencies = make(map[DependencyKind][]Dependency)
	}
	p.Dependencies[kind] = append(p.Dependencies[kind], deps...)
}

// purlTypes maps handler types to purl types.
var purlTypes = map[string]string{
	"phpcomposer": packageurl.TypeComposer,
}

// PackageURL returns the purl for p, or "" when p has no name or its
// ecosystem has no purl type. A "vendor/name" package name is split into
// namespace and name.
func (p *Package) PackageURL() string {
	typ, ok := purlTypes[p.Type]
	if !ok || p.Name == "" {
		return ""
	}

	namespace, name := "", p.Name
	if i := strings.LastIndex(p.Name, "/"); i >= 0 {
		namespace, name = p.Name[:i], p.Name[i+1:]
	}
	if typ == packageurl.TypeComposer {
		namespace, name = strings.ToLower(namespace), strings.ToLower(name)
	}
	return packageurl.NewPackageURL(typ, namespace, name, p.Version, nil, "").ToString()
}
