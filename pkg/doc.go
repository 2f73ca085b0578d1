// Package pkg holds the pkgscan libraries.
//
// # Overview
//
// pkgscan finds package manifests in a source tree and turns each one into
// a [packages.Package]: name, version, licenses, authors, declared
// dependencies, repository and support contacts. It does not resolve
// dependencies or contact registries; everything comes from the manifest.
//
// # Data Flow
//
//	source tree
//	     ↓
//	[scan] walk, detect handlers, hash content
//	     ↓
//	[cache] result lookup by content hash
//	     ↓
//	[packages/composer] decode with [ordered] and map fields
//	     ↓
//	[scan.Report] → JSON, [render] DOT/SVG, [store] MongoDB
//
// # Quick Start
//
//	h := composer.New(nil)
//	pkg, err := h.Recognize("composer.json")
//	if err != nil {
//	    return err // malformed JSON or a wrongly shaped field
//	}
//	if pkg == nil {
//	    return nil // not a usable package: no name or description
//	}
//	fmt.Println(pkg.PackageURL())
//
// Scanning a tree with a file cache:
//
//	c, _ := cache.NewFileCache(dir)
//	s := scan.New(c, logger, composer.New(logger))
//	report, err := s.Scan(ctx, "./src")
//
// # Packages
//
// [packages] - The package model, the [packages.Handler] interface and
// handler detection by file name.
//
// [packages/composer] - The composer.json handler.
//
// [ordered] - JSON decoding that keeps object key order.
//
// [scan] - Concurrent directory scanning with cached recognition.
//
// [cache] - Result caches: file, Redis and a no-op cache.
//
// [store] - MongoDB persistence for scan reports.
//
// [render] - JSON output and Graphviz dependency graphs.
//
// [config] - The pkgscan.toml configuration file.
//
// [errors] - Error codes shared by the CLI and the HTTP API.
//
// [observability] - Hooks for scan, cache and HTTP events.
//
// [buildinfo] - Version information.
//
// [packages]: github.com/matzehuels/pkgscan/pkg/packages
// [packages.Package]: github.com/matzehuels/pkgscan/pkg/packages.Package
// [packages.Handler]: github.com/matzehuels/pkgscan/pkg/packages.Handler
// [packages/composer]: github.com/matzehuels/pkgscan/pkg/packages/composer
// [ordered]: github.com/matzehuels/pkgscan/pkg/ordered
// [scan]: github.com/matzehuels/pkgscan/pkg/scan
// [scan.Report]: github.com/matzehuels/pkgscan/pkg/scan.Report
// [cache]: github.com/matzehuels/pkgscan/pkg/cache
// [store]: github.com/matzehuels/pkgscan/pkg/store
// [render]: github.com/matzehuels/pkgscan/pkg/render
// [config]: github.com/matzehuels/pkgscan/pkg/config
// [errors]: github.com/matzehuels/pkgscan/pkg/errors
// [observability]: github.com/matzehuels/pkgscan/pkg/observability
// [buildinfo]: github.com/matzehuels/pkgscan/pkg/buildinfo
package pkg
