// File: database/repository/vehicle/vehicle_mongo.go
package vehicleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carbook/database"
	"carbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoVehicleRepo implements VehicleRepository using MongoDB.
type MongoVehicleRepo struct {
	coll *mongo.Collection
}

// NewMongoVehicleRepo constructs a new instance of MongoVehicleRepo.
func NewMongoVehicleRepo(db *mongo.Database) *MongoVehicleRepo {
	return &MongoVehicleRepo{coll: db.Collection("vehicles")}
}

// EnsureIndexes creates the necessary indexes on the vehicles collection.
func (r *MongoVehicleRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "fuel_type", Value: 1}, {Key: "type", Value: 1}},
			Options: options.Index().SetName("status_fuel_type_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create vehicle indexes: %w", err)
	}
	return nil
}

func (r *MongoVehicleRepo) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	var v models.Vehicle
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrVehicleNotFound
	}
	if err != nil {
		return nil, database.ClassifyMongoError("get vehicle", err)
	}
	return &v, nil
}

func (r *MongoVehicleRepo) List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, database.ClassifyMongoError("list vehicles", err)
	}
	defer cursor.Close(ctx)

	var all []models.Vehicle
	if err := cursor.All(ctx, &all); err != nil {
		return nil, database.ClassifyMongoError("decode vehicles", err)
	}
	// fuel and car type are matched case-insensitively in process
	out := make([]models.Vehicle, 0, len(all))
	for _, v := range all {
		if matches(v, filter) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *MongoVehicleRepo) Resolve(ctx context.Context, identifier string) (*models.Vehicle, error) {
	if v, err := r.GetByID(ctx, identifier); err == nil {
		return v, nil
	} else if !errors.Is(err, models.ErrVehicleNotFound) {
		return nil, err
	}
	all, err := r.List(ctx, models.VehicleFilter{})
	if err != nil {
		return nil, err
	}
	return resolveIn(all, identifier)
}

func (r *MongoVehicleRepo) UpsertMany(ctx context.Context, vehicles []models.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(vehicles))
	for _, v := range vehicles {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": v.ID}).
			SetReplacement(v).
			SetUpsert(true))
	}
	if _, err := r.coll.BulkWrite(ctx, writes); err != nil {
		return database.ClassifyMongoError("upsert vehicles", err)
	}
	return nil
}

func (r *MongoVehicleRepo) InsertMissing(ctx context.Context, vehicles []models.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(vehicles))
	for _, v := range vehicles {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"id": v.ID}).
			SetUpdate(bson.M{"$setOnInsert": v}).
			SetUpsert(true))
	}
	if _, err := r.coll.BulkWrite(ctx, writes); err != nil {
		return database.ClassifyMongoError("insert vehicles", err)
	}
	return nil
}
