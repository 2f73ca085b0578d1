// Package composer recognizes PHP Composer manifests (composer.json) and
// maps them onto [packages.Package].
//
// # Overview
//
// [Handler.Recognize] accepts a filesystem path and returns the package the
// manifest declares, or nil when the file is not a composer.json or lacks a
// name or description. Only files whose leaf name is "composer.json"
// (any case) are considered; their content is never sniffed.
//
// # Field Mapping
//
// Scalar keys are copied directly, trimmed:
//
//   - name → Name
//   - description → Summary
//   - keywords → Keywords
//   - version → Version
//   - homepage → HomepageURL
//
// Structured keys go through a dedicated mapper each, in this order:
//
//   - authors: people with name, email and homepage ([ParsePersons])
//   - license: a string, a list, or anything else captured as text
//   - require, require-dev: runtime and dev dependencies
//   - repositories: VCS tool and canonical URL ([ResolveRepoURL])
//   - support: email, issue tracker and source browser
//
// # Errors
//
// Content that is not valid UTF-8 JSON, and an "authors" value that is not
// a list, are reported as [errors.ErrCodeInvalidManifest]. Odd shapes for
// license or repositories are captured on a best-effort basis instead.
//
// [packages.Package]: github.com/matzehuels/pkgscan/pkg/packages.Package
// [errors.ErrCodeInvalidManifest]: github.com/matzehuels/pkgscan/pkg/errors.ErrCodeInvalidManifest
package composer
