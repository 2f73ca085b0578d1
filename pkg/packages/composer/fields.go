package composer

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/pkgscan/pkg/ordered"
	"github.com/matzehuels/pkgscan/pkg/packages"
)

// plainFields copy scalar manifest keys onto the package, in this order.
var plainFields = []struct {
	key string
	set func(pkg *packages.Package, v any)
}{
	{"name", func(pkg *packages.Package, v any) { pkg.Name = stringValue(v, pkg.Name) }},
	{"description", func(pkg *packages.Package, v any) { pkg.Summary = stringValue(v, pkg.Summary) }},
	{"keywords", setKeywords},
	{"version", func(pkg *packages.Package, v any) { pkg.Version = stringValue(v, pkg.Version) }},
	{"homepage", func(pkg *packages.Package, v any) { pkg.HomepageURL = stringValue(v, pkg.HomepageURL) }},
}

// fieldMappers handle structured manifest keys, in this order. Each mapper
// updates pkg in place.
var fieldMappers = []struct {
	key   string
	apply func(v any, pkg *packages.Package) error
}{
	{"authors", mapAuthors},
	{"license", mapLicenses},
	{"require", dependencyMapper(packages.DependencyRuntime)},
	{"require-dev", dependencyMapper(packages.DependencyDev)},
	{"repositories", mapRepositories},
	{"support", mapSupport},
}

// lookup returns the value under key, trimmed if it is a string. Absent,
// null, blank, zero and empty values are reported as missing.
func lookup(m *ordered.Map, key string) (any, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	if s, isStr := v.(string); isStr {
		v = strings.TrimSpace(s)
	}
	return v, truthy(v)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case []any:
		return len(t) > 0
	case *ordered.Map:
		return t.Len() > 0
	default:
		return true
	}
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

func setKeywords(pkg *packages.Package, v any) {
	list, ok := v.([]any)
	if !ok {
		return
	}
	for _, item := range list {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				pkg.Keywords = append(pkg.Keywords, s)
			}
		}
	}
}

// text renders a decoded manifest value as compact JSON, keeping object
// key order.
func text(v any) string {
	b, err := ordered.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
