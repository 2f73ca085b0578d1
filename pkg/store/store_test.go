package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/pkgscan/pkg/packages"
	"github.com/matzehuels/pkgscan/pkg/scan"
)

func sampleReport() *scan.Report {
	return &scan.Report{
		ID:        "0b4f6c3e-6f39-4a57-9d0c-5ab3c1d1d7b1",
		Root:      "/src",
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Packages: []*packages.Package{
			{Type: "phpcomposer", Name: "monolog/monolog", Version: "3.5.0"},
			{Type: "phpcomposer", Name: "acme/app"},
			{Type: "unknown", Name: "x"},
		},
		Errors: []scan.FileError{{Path: "/src/bad/composer.json", Message: "decode"}},
	}
}

func TestNewReportDocument(t *testing.T) {
	r := sampleReport()
	doc := newReportDocument(r)

	want := Summary{
		ID:           r.ID,
		Root:         "/src",
		StartedAt:    r.StartedAt,
		Duration:     r.Duration,
		PackageCount: 3,
		ErrorCount:   1,
	}
	if doc.Summary != want {
		t.Errorf("Summary = %+v, want %+v", doc.Summary, want)
	}
	if wantPURLs := []string{"pkg:composer/monolog/monolog@3.5.0", "pkg:composer/acme/app"}; !reflect.DeepEqual(doc.PURLs, wantPURLs) {
		t.Errorf("PURLs = %v, want %v", doc.PURLs, wantPURLs)
	}
	if doc.Report != r {
		t.Error("document should carry the full report")
	}
}

func TestReportDocument_BSONLayout(t *testing.T) {
	raw, err := bson.Marshal(newReportDocument(sampleReport()))
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}

	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"_id", "root", "started_at", "duration", "package_count", "error_count", "purls", "report"} {
		if _, ok := m[key]; !ok {
			t.Errorf("document is missing %q", key)
		}
	}

	// Summaries decode straight from the stored document.
	var s Summary
	if err := bson.Unmarshal(raw, &s); err != nil {
		t.Fatal(err)
	}
	if s.ID != sampleReport().ID || s.PackageCount != 3 {
		t.Errorf("Summary = %+v", s)
	}
}

func TestWithRetry(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond
	ctx := context.Background()
	transient := &retryableError{errors.New("connection reset")}
	permanent := errors.New("duplicate key")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, nil, 1, false},
		{"transient then success", 2, transient, 3, false},
		{"transient exhausted", 5, transient, 3, true},
		{"permanent", 5, permanent, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := withRetry(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithRetry_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, func() error { return &retryableError{errors.New("timeout")} })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	plain := errors.New("boom")
	if got := classify(plain); got != plain {
		t.Errorf("classify(plain) = %v", got)
	}
}
