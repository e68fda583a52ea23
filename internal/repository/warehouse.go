package repository

import (
	"context"
	"time"

	"shipway-proxy-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Warehouse store. Identity is the exact composite signature; two documents
// with the same signature are the same warehouse, anything else is new.
type MongoWarehouseRepository struct {
	col *mongo.Collection
}

func NewMongoWarehouseRepository(db *mongo.Database) *MongoWarehouseRepository {
	return &MongoWarehouseRepository{col: db.Collection("warehouse")}
}

func (m *MongoWarehouseRepository) FindBySignature(ctx context.Context, sig model.WarehouseSignature) (*model.Warehouse, error) {
	filter := bson.M{
		"title":               sig.Title,
		"contact_person_name": sig.ContactPersonName,
		"email":               sig.Email,
		"phone":               sig.Phone,
		"address_1":           sig.Address1,
		"city":                sig.City,
		"state":               sig.State,
		"country":             sig.Country,
		"pincode":             sig.Pincode,
	}

	var res model.Warehouse
	err := m.col.FindOne(ctx, filter).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (m *MongoWarehouseRepository) Insert(ctx context.Context, w *model.Warehouse) error {
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	_, err := m.col.InsertOne(ctx, w)
	return err
}

func (m *MongoWarehouseRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	_, err := m.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": withUpdatedAt(fields)})
	return err
}
