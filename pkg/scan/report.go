package scan

import (
	"sort"
	"time"

	"github.com/matzehuels/pkgscan/pkg/errors"
	"github.com/matzehuels/pkgscan/pkg/packages"
)

// Report is the outcome of one [Scanner.Scan].
type Report struct {
	ID        string              `json:"id" bson:"_id"`
	Root      string              `json:"root" bson:"root"`
	StartedAt time.Time           `json:"started_at" bson:"started_at"`
	Duration  time.Duration       `json:"duration" bson:"duration"`
	Packages  []*packages.Package `json:"packages" bson:"packages"`
	Errors    []FileError         `json:"errors,omitempty" bson:"errors,omitempty"`
	Stats     Stats               `json:"stats" bson:"stats"`
}

// FileError records a manifest that could not be recognized.
type FileError struct {
	Path    string      `json:"path" bson:"path"`
	Code    errors.Code `json:"code,omitempty" bson:"code,omitempty"`
	Message string      `json:"message" bson:"message"`
}

// Stats counts what a scan looked at.
type Stats struct {
	Candidates int `json:"candidates" bson:"candidates"` // Files some handler supports
	Skipped    int `json:"skipped" bson:"skipped"`       // Candidates that were not usable packages
	CacheHits  int `json:"cache_hits" bson:"cache_hits"`
}

// DependencyCount returns the number of dependencies declared across all
// packages in the report.
func (r *Report) DependencyCount() int {
	n := 0
	for _, p := range r.Packages {
		for _, deps := range p.Dependencies {
			n += len(deps)
		}
	}
	return n
}

func (r *Report) sort() {
	sort.Slice(r.Packages, func(i, j int) bool {
		return firstMetafile(r.Packages[i]) < firstMetafile(r.Packages[j])
	})
	sort.Slice(r.Errors, func(i, j int) bool { return r.Errors[i].Path < r.Errors[j].Path })
}

func firstMetafile(p *packages.Package) string {
	if len(p.MetafileLocations) == 0 {
		return ""
	}
	return p.MetafileLocations[0]
}

func newFileError(path string, err error) FileError {
	return FileError{Path: path, Code: errors.GetCode(err), Message: errors.UserMessage(err)}
}
