package repository

import (
	"context"
	"fmt"
	"time"

	"residency-sync/internal/domain/entity"
	"residency-sync/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLocationRecordRepository implements LocationRecordRepository
type MongoLocationRecordRepository struct {
	collection *mongo.Collection
	meta       *mongo.Collection
}

// NewMongoLocationRecordRepository creates the Mongo-backed record store.
// Records are keyed by their ISO day in _id; no extra unique index needed.
func NewMongoLocationRecordRepository(db *mongo.Database) repository.LocationRecordRepository {
	collection := db.Collection("location_records")

	ctx := context.Background()

	// Index for the conflict-audit view
	conflictIndex := mongo.IndexModel{
		Keys:    bson.M{"countryConflict": 1},
		Options: options.Index().SetSparse(true),
	}

	// Index for filtering engine-written days
	autoBookingIndex := mongo.IndexModel{
		Keys: bson.M{"autoBooking": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		conflictIndex,
		autoBookingIndex,
	})

	return &MongoLocationRecordRepository{
		collection: collection,
		meta:       db.Collection("sync_meta"),
	}
}

// ReadAll loads the full per-day snapshot keyed by date.
func (r *MongoLocationRecordRepository) ReadAll(ctx context.Context) (map[string]*entity.LocationRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to read location records: %w", err)
	}
	defer cursor.Close(ctx)

	records := make(map[string]*entity.LocationRecord)
	for cursor.Next(ctx) {
		var record entity.LocationRecord
		if err := cursor.Decode(&record); err != nil {
			continue
		}
		records[record.Date] = &record
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ApplyUpdates upserts every record in the update set, one document per day.
func (r *MongoLocationRecordRepository) ApplyUpdates(ctx context.Context, updates map[string]*entity.LocationRecord) error {
	opts := options.Replace().SetUpsert(true)

	for date, record := range updates {
		record.UpdatedAt = time.Now()
		if record.CreatedAt.IsZero() {
			record.CreatedAt = record.UpdatedAt
		}

		_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": date}, record, opts)
		if err != nil {
			return fmt.Errorf("failed to upsert record for %s: %w", date, err)
		}
	}
	return nil
}

// SetLastSyncTimestamp records the completion time of a successful run.
func (r *MongoLocationRecordRepository) SetLastSyncTimestamp(ctx context.Context, at time.Time) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.meta.UpdateOne(
		ctx,
		bson.M{"_id": "bookings"},
		bson.M{"$set": bson.M{"lastSyncAt": at}},
		opts,
	)
	return err
}
