package composer

import (
	"github.com/matzehuels/pkgscan/pkg/ordered"
	"github.com/matzehuels/pkgscan/pkg/packages"
)

// dependencyMapper returns a mapper for a package-links object such as
// "require" (https://getcomposer.org/doc/04-schema.md#package-links).
// Entries keep manifest order and are appended to any already recorded for
// kind.
func dependencyMapper(kind packages.DependencyKind) func(any, *packages.Package) error {
	return func(v any, pkg *packages.Package) error {
		links, ok := v.(*ordered.Map)
		if !ok {
			return nil
		}
		deps := make([]packages.Dependency, 0, links.Len())
		for _, name := range links.Keys() {
			raw, _ := links.Get(name)
			constraint, ok := raw.(string)
			if !ok {
				constraint = text(raw)
			}
			deps = append(deps, packages.Dependency{Name: name, VersionConstraint: constraint})
		}
		pkg.AddDependencies(kind, deps)
		return nil
	}
}
