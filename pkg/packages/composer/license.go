package composer

import "github.com/matzehuels/pkgscan/pkg/packages"

// mapLicenses records the "license" value as asserted licenses.
//
// The license field has changed shape over time
// (https://getcomposer.org/doc/04-schema.md#license). It may be:
//
//	"license": "(LGPL-2.1-only or GPL-3.0-or-later)"
//	"license": ["LGPL-2.1-only", "GPL-3.0-or-later"]
//
// Strings are kept verbatim. Anything else is kept as its JSON text rather
// than dropped, since license data is inconsistent across the ecosystem.
func mapLicenses(v any, pkg *packages.Package) error {
	if !truthy(v) {
		return nil
	}
	switch t := v.(type) {
	case string:
		pkg.AssertedLicenses = append(pkg.AssertedLicenses, packages.AssertedLicense{License: t})
	case []any:
		for _, lic := range t {
			if s, ok := lic.(string); ok {
				pkg.AssertedLicenses = append(pkg.AssertedLicenses, packages.AssertedLicense{License: s})
				continue
			}
			if truthy(lic) {
				pkg.AssertedLicenses = append(pkg.AssertedLicenses, packages.AssertedLicense{License: text(lic)})
			}
		}
	default:
		pkg.AssertedLicenses = append(pkg.AssertedLicenses, packages.AssertedLicense{License: text(t)})
	}
	return nil
}
