// Package packages defines the package metadata model shared by all
// manifest recognizers, and the [Handler] interface they implement.
//
// # Overview
//
// A [Handler] looks at a single file and, if it understands it, returns a
// [Package] describing the third-party package the file declares. Handlers
// never fail on files that are simply not theirs: [Handler.Recognize]
// returns (nil, nil) for unrecognized or incomplete manifests and reserves
// errors for files that look like manifests but cannot be decoded.
//
// # Package Data
//
// Each recognized [Package] carries:
//
//   - Name, Version, Summary, HomepageURL, Keywords: identity
//   - Location, MetafileLocations: where the manifest was found
//   - Authors: [Party] records for people
//   - AssertedLicenses: license strings exactly as declared
//   - Dependencies: [Dependency] lists keyed by [DependencyKind]
//   - VCSTool, VCSRepository: source repository
//   - SupportContacts, BugTrackingURL, CodeViewURL: support channels
//
// [Package.PackageURL] derives a purl (https://github.com/package-url/purl-spec)
// for ecosystems with a registered purl type.
//
// # Handlers
//
// [Detect] picks the first handler that supports a file name, mirroring how
// a scanner dispatches files it encounters while walking a tree.
// Ecosystem handlers live in subpackages, e.g. [composer].
//
// [composer]: github.com/matzehuels/pkgscan/pkg/packages/composer
package packages
