package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/pkgscan/pkg/errors"
	"github.com/matzehuels/pkgscan/pkg/scan"
)

const reportsCollection = "reports"

// MongoStore keeps reports in MongoDB.
type MongoStore struct {
	client  *mongo.Client
	reports *mongo.Collection
}

// NewMongoStore connects to uri and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}
	return &MongoStore{
		client:  client,
		reports: client.Database(database).Collection(reportsCollection),
	}, nil
}

// Summary is the listing view of a stored report.
type Summary struct {
	ID           string        `json:"id" bson:"_id"`
	Root         string        `json:"root" bson:"root"`
	StartedAt    time.Time     `json:"started_at" bson:"started_at"`
	Duration     time.Duration `json:"duration" bson:"duration"`
	PackageCount int           `json:"package_count" bson:"package_count"`
	ErrorCount   int           `json:"error_count" bson:"error_count"`
}

// reportDocument is the stored form of a report.
type reportDocument struct {
	Summary `bson:",inline"`
	PURLs   []string     `bson:"purls"`
	Report  *scan.Report `bson:"report"`
}

func newReportDocument(r *scan.Report) reportDocument {
	purls := make([]string, 0, len(r.Packages))
	for _, p := range r.Packages {
		if purl := p.PackageURL(); purl != "" {
			purls = append(purls, purl)
		}
	}
	return reportDocument{
		Summary: Summary{
			ID:           r.ID,
			Root:         r.Root,
			StartedAt:    r.StartedAt,
			Duration:     r.Duration,
			PackageCount: len(r.Packages),
			ErrorCount:   len(r.Errors),
		},
		PURLs:  purls,
		Report: r,
	}
}

func (s *MongoStore) SaveReport(ctx context.Context, report *scan.Report) error {
	doc := newReportDocument(report)
	err := withRetry(ctx, func() error {
		_, err := s.reports.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
		return classify(err)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save report %s", report.ID)
	}
	return nil
}

func (s *MongoStore) Report(ctx context.Context, id string) (*scan.Report, error) {
	var doc reportDocument
	err := s.reports.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "report %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load report %s", id)
	}
	return doc.Report, nil
}

func (s *MongoStore) Recent(ctx context.Context, limit int) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(max(limit, 1))).
		SetProjection(bson.M{"report": 0, "purls": 0})

	cur, err := s.reports.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list reports")
	}
	summaries := []Summary{}
	if err := cur.All(ctx, &summaries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode reports")
	}
	return summaries, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// classify marks transient driver errors as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return &retryableError{err}
	}
	return err
}

var _ Store = (*MongoStore)(nil)
