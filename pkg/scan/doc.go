// Package scan discovers package manifests under a directory tree and
// recognizes them concurrently.
//
// A [Scanner] walks the tree, hands every file some handler supports to
// that handler, and collects the results into a [Report]. Results are
// cached by manifest content, so rescanning an unchanged tree only costs a
// walk and a hash per manifest.
//
// Per-file failures (malformed JSON, unreadable files) are recorded in
// [Report.Errors] and do not stop the scan. Context cancellation does.
//
//	s := scan.New(cache.NewNullCache(), logger, composer.New(logger))
//	report, err := s.Scan(ctx, "./src")
package scan
