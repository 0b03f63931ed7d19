package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/delivery-map/internal/core/domain"
)

// Server error codes that mean the credentials were rejected.
const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
)

const batchSize = 100

// recordDocument mirrors one Airtable row: one collection per table, the
// record id as _id and the row's cells under fields. A document without views
// is visible in every view.
type recordDocument struct {
	ID          string    `bson:"_id"`
	CreatedTime time.Time `bson:"created_time,omitempty"`
	Views       []string  `bson:"views,omitempty"`
	Fields      bson.M    `bson:"fields"`
}

// RecordRepository implements ports.RecordStore using MongoDB.
type RecordRepository struct {
	db *mongo.Database
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{db: db}
}

// FetchOne retrieves a record by id from the table's collection.
func (r *RecordRepository) FetchOne(ctx context.Context, table, recordID string) (domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc recordDocument
	if err := r.db.Collection(table).FindOne(ctx, bson.M{"_id": recordID}).Decode(&doc); err != nil {
		return domain.Record{}, classify("find", err, true)
	}
	return doc.toDomain(), nil
}

// FetchAll returns every document visible under view in natural order.
func (r *RecordRepository) FetchAll(ctx context.Context, table, view string) ([]domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.db.Collection(table).Find(ctx, viewFilter(view), options.Find().SetBatchSize(batchSize))
	if err != nil {
		return nil, classify("list", err, false)
	}
	defer cur.Close(ctx)

	out := []domain.Record{}
	for cur.Next(ctx) {
		var doc recordDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, classify("decode", err, false)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, classify("list", err, false)
	}
	return out, nil
}

// Ping checks server connectivity.
func (r *RecordRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := r.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return classify("ping", err, false)
	}
	return nil
}

func viewFilter(view string) bson.M {
	if view == "" {
		return bson.M{}
	}
	return bson.M{"$or": bson.A{
		bson.M{"views": bson.M{"$exists": false}},
		bson.M{"views": view},
	}}
}

func (d recordDocument) toDomain() domain.Record {
	fields := make(map[string]any, len(d.Fields))
	for k, v := range d.Fields {
		fields[k] = normalize(v)
	}
	return domain.Record{ID: d.ID, CreatedTime: d.CreatedTime, Fields: fields}
}

// normalize converts BSON values into the shapes encoding/json produces, so
// both backends feed the mapper identical records.
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.M:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case primitive.A:
		return normalizeSlice(t)
	case []any:
		return normalizeSlice(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case primitive.Decimal128:
		return t.String()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case primitive.ObjectID:
		return t.Hex()
	default:
		return v
	}
}

func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = normalize(v)
	}
	return out
}

func normalizeSlice(in []any) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = normalize(v)
	}
	return out
}

func classify(op string, err error, notFoundIsRecord bool) error {
	if notFoundIsRecord && errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("mongo %s: %w", op, domain.ErrRecordNotFound)
	}

	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorCode(codeUnauthorized) || se.HasErrorCode(codeAuthenticationFailed)) {
		return fmt.Errorf("mongo %s: %w: %w", op, domain.ErrUnauthorized, err)
	}
	return fmt.Errorf("mongo %s: %w: %w", op, domain.ErrUpstream, err)
}
