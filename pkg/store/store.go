// Package store persists scan reports.
//
// [MongoStore] writes each report as one document in a "reports"
// collection, alongside a flattened list of package URLs so reports can be
// searched by the packages they contain:
//
//	db.reports.find({"purls": "pkg:composer/monolog/monolog@3.5.0"})
package store

import (
	"context"

	"github.com/matzehuels/pkgscan/pkg/scan"
)

// Store saves and retrieves scan reports.
type Store interface {
	// SaveReport persists report. Saving the same report ID twice replaces
	// the earlier copy.
	SaveReport(ctx context.Context, report *scan.Report) error

	// Report returns the report with the given ID, or an error with code
	// NOT_FOUND.
	Report(ctx context.Context, id string) (*scan.Report, error)

	// Recent returns summaries of the newest reports, newest first.
	Recent(ctx context.Context, limit int) ([]Summary, error)

	Close(ctx context.Context) error
}
