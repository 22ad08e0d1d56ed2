// File: database/repository/reservation/reservation_mongo.go
package reservationRepo

import (
	"context"
	"errors"
	"time"

	"carbook/database"
	"carbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	coll  *mongo.Collection
	locks *mongo.Collection
}

// NewMongoReservationRepo constructs a new instance of MongoReservationRepo.
func NewMongoReservationRepo(db *mongo.Database) *MongoReservationRepo {
	return &MongoReservationRepo{
		coll:  db.Collection("reservations"),
		locks: db.Collection("vehicle_locks"),
	}
}

func overlapFilter(vehicleID string, start, end time.Time) bson.M {
	return bson.M{
		"vehicle_id": vehicleID,
		"status":     models.ReservationConfirmed,
		"start_at":   bson.M{"$lt": models.NormalizeTime(end)},
		"end_at":     bson.M{"$gt": models.NormalizeTime(start)},
	}
}

func (r *MongoReservationRepo) HasConflict(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, overlapFilter(vehicleID, start, end), options.Count().SetLimit(1))
	if err != nil {
		return false, database.ClassifyMongoError("check conflict", err)
	}
	return n > 0, nil
}

// Insert runs check and insert in one transaction that first writes the vehicle's
// lock document. Concurrent commits for the same vehicle hit a write conflict on that
// document; the driver retries the loser, which then sees the winner's reservation.
func (r *MongoReservationRepo) Insert(ctx context.Context, res *models.Reservation) error {
	row := normalized(res)
	sess, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return database.ClassifyMongoError("start mongo session", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		lockUpdate := bson.M{
			"$set": bson.M{"locked_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		}
		if _, err := r.locks.UpdateOne(sc, bson.M{"_id": row.VehicleID}, lockUpdate, options.Update().SetUpsert(true)); err != nil {
			return nil, err
		}

		n, err := r.coll.CountDocuments(sc, overlapFilter(row.VehicleID, row.StartAt, row.EndAt), options.Count().SetLimit(1))
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, conflictFor(&row)
		}

		if _, err := r.coll.InsertOne(sc, row); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			return conflict
		}
		return database.ClassifyMongoError("insert reservation", err)
	}
	return nil
}

func (r *MongoReservationRepo) findOne(ctx context.Context, filter bson.M) (*models.Reservation, error) {
	var res models.Reservation
	err := r.coll.FindOne(ctx, filter).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, database.ClassifyMongoError("get reservation", err)
	}
	return &res, nil
}

func (r *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoReservationRepo) GetBySession(ctx context.Context, sessionID string) (*models.Reservation, error) {
	if sessionID == "" {
		return nil, models.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"session_id": sessionID})
}

func (r *MongoReservationRepo) ListByVehicle(ctx context.Context, vehicleID string) ([]models.Reservation, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"vehicle_id": vehicleID}, options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}}))
	if err != nil {
		return nil, database.ClassifyMongoError("list reservations", err)
	}
	defer cursor.Close(ctx)

	var out []models.Reservation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, database.ClassifyMongoError("decode reservations", err)
	}
	return out, nil
}

func (r *MongoReservationRepo) UpdateStatus(ctx context.Context, id string, from, to models.ReservationStatus) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return database.ClassifyMongoError("update reservation status", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoReservationRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
