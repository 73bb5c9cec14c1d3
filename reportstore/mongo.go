package reportstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"forestreport/models"
)

const (
	reportsCollection  = "analisis_reportes"
	countersCollection = "counters"
)

// MongoStore keeps reports in a MongoDB collection. Integer ids come from a
// counter document incremented by the server, so they stay monotonic like the
// SQL identity column and define the listing order. created_at is the
// writer's clock and is only informative.
type MongoStore struct {
	client   *mongo.Client
	reports  *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

var _ Store = (*MongoStore)(nil)

// reportDoc mirrors a row of the SQL table. Nil payloads are stored as BSON null.
type reportDoc struct {
	ID          int64     `bson:"_id"`
	Type        string    `bson:"tipo_reporte"`
	Title       string    `bson:"titulo"`
	Description string    `bson:"descripcion"`
	Parameters  *string   `bson:"parametros"`
	Result      *string   `bson:"resultado"`
	GeneratedBy string    `bson:"generado_por"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d reportDoc) report() models.Report {
	return models.Report{
		ID:          d.ID,
		Type:        models.ReportType(d.Type),
		Title:       d.Title,
		Description: d.Description,
		Parameters:  rawJSON(d.Parameters),
		Result:      rawJSON(d.Result),
		GeneratedBy: d.GeneratedBy,
		CreatedAt:   models.Timestamp(d.CreatedAt),
	}
}

func newReportDoc(id int64, r NewReport, p payload, now time.Time) reportDoc {
	return reportDoc{
		ID:          id,
		Type:        string(r.Type),
		Title:       r.Title,
		Description: r.Description,
		Parameters:  p.Parameters,
		Result:      p.Result,
		GeneratedBy: r.GeneratedBy,
		CreatedAt:   now.UTC().Truncate(time.Millisecond),
	}
}

// NewMongoStore connects to uri and uses database dbName.
func NewMongoStore(ctx context.Context, uri, dbName string, pool PoolConfig) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMinPoolSize(uint64(pool.Min)).
		SetMaxPoolSize(uint64(pool.Max))
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, ErrConnect{Driver: "mongo", Err: err}
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, ErrConnect{Driver: "mongo", Err: err}
	}
	db := client.Database(dbName)
	return &MongoStore{
		client:   client,
		reports:  db.Collection(reportsCollection),
		counters: db.Collection(countersCollection),
		now:      time.Now,
	}, nil
}

func (s *MongoStore) EnsureSchema(ctx context.Context) error {
	// Creating an index that already exists is a no-op.
	if _, err := s.reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tipo_reporte", Value: 1}, {Key: "_id", Value: -1}},
	}); err != nil {
		return ErrSchema{Err: err}
	}
	return nil
}

func (s *MongoStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": reportsCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	return counter.Seq, err
}

// Append inserts a single document; the insert is atomic on its own.
func (s *MongoStore) Append(ctx context.Context, r NewReport) error {
	p, err := encodeReport(r)
	if err != nil {
		return ErrInsert{ReportType: string(r.Type), Err: err}
	}
	id, err := s.nextID(ctx)
	if err != nil {
		return ErrInsert{ReportType: string(r.Type), Err: err}
	}
	if _, err := s.reports.InsertOne(ctx, newReportDoc(id, r, p, s.now())); err != nil {
		return ErrInsert{ReportType: string(r.Type), Err: err}
	}
	return nil
}

func (s *MongoStore) ListAll(ctx context.Context, limit int) ([]models.Report, error) {
	limit, err := NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, bson.M{}, limit)
}

func (s *MongoStore) ListByType(ctx context.Context, reportType models.ReportType, limit int) ([]models.Report, error) {
	limit, err := NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, bson.M{"tipo_reporte": string(reportType)}, limit)
}

func (s *MongoStore) find(ctx context.Context, filter bson.M, limit int) ([]models.Report, error) {
	cur, err := s.reports.Find(ctx, filter, newestFirst(limit))
	if err != nil {
		return nil, ErrQuery{Err: err}
	}
	defer cur.Close(ctx)

	var docs []reportDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, ErrQuery{Err: err}
	}
	out := make([]models.Report, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.report())
	}
	return out, nil
}

func newestFirst(limit int) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
}

func (s *MongoStore) Close() error { return s.client.Disconnect(context.Background()) }
