// FILE: database/repository/reservation/indexes.go
package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the reservation indexes and the lock collection.
// The lock collection must exist before the first transaction writes to it.
func (r *MongoReservationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on reservation ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// One reservation per creating session
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("unique_session_id"),
		},
		// Overlap query: vehicle + status + window
		{
			Keys:    bson.D{{Key: "vehicle_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start_at", Value: 1}, {Key: "end_at", Value: 1}},
			Options: options.Index().SetName("vehicle_status_window_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}

	err := r.locks.Database().CreateCollection(ctx, r.locks.Name())
	var cmdErr mongo.CommandError
	if err != nil && !(errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceExists") {
		return fmt.Errorf("failed to create vehicle lock collection: %w", err)
	}
	return nil
}
