package repository

import (
	"context"
	"errors"
	"time"

	"shipway-proxy-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("document not found")

// Mongo implementation of the order store. Documents live in "pushorder";
// every write stamps updated_at. Orders are append-permitted: a resubmitted
// order_id inserts a fresh document, which is why "latest" lookups sort by
// creation time.
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection("pushorder")}
}

func (m *MongoOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	var res model.Order
	err := m.col.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (m *MongoOrderRepository) FindLatestByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var res model.Order
	err := m.col.FindOne(ctx, bson.M{"order_id": orderID}, opts).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (m *MongoOrderRepository) FindByOrderIDs(ctx context.Context, orderIDs []string) ([]*model.Order, error) {
	cur, err := m.col.Find(ctx, bson.M{"order_id": bson.M{"$in": orderIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Order
	for cur.Next(ctx) {
		var v model.Order
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func (m *MongoOrderRepository) FindByAWB(ctx context.Context, awb string) (*model.Order, error) {
	var res model.Order
	err := m.col.FindOne(ctx, bson.M{"awb_response.AWB": awb}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// FindAll returns the raw documents so the dump endpoint can expose every
// payload field, not just the modeled ones.
func (m *MongoOrderRepository) FindAll(ctx context.Context) ([]map[string]interface{}, error) {
	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []map[string]interface{}
	for cur.Next(ctx) {
		var v map[string]interface{}
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}

// Insert stores a fresh order document as-is (plus created_at when missing).
func (m *MongoOrderRepository) Insert(ctx context.Context, doc map[string]interface{}) error {
	if _, ok := doc["created_at"]; !ok {
		doc["created_at"] = time.Now().UTC()
	}
	_, err := m.col.InsertOne(ctx, doc)
	return err
}

func (m *MongoOrderRepository) UpdateFields(ctx context.Context, orderID string, fields map[string]interface{}) error {
	_, err := m.col.UpdateOne(ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": withUpdatedAt(fields)})
	return err
}

// UpdateFieldsUnlessSucceeded applies fields only while the guarded outcome is
// not already successful, so two racing requests cannot both record a win.
// Returns false when the guard rejected the write.
func (m *MongoOrderRepository) UpdateFieldsUnlessSucceeded(ctx context.Context, orderID, guardField string, fields map[string]interface{}) (bool, error) {
	res, err := m.col.UpdateOne(ctx,
		bson.M{"order_id": orderID, guardField + ".success": bson.M{"$ne": true}},
		bson.M{"$set": withUpdatedAt(fields)})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// UpdateFieldsIfAbsent applies fields only while the guarded field has never
// been written for this order.
func (m *MongoOrderRepository) UpdateFieldsIfAbsent(ctx context.Context, orderID, guardField string, fields map[string]interface{}) (bool, error) {
	res, err := m.col.UpdateOne(ctx,
		bson.M{"order_id": orderID, guardField: bson.M{"$exists": false}},
		bson.M{"$set": withUpdatedAt(fields)})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// UpdateManyIfAbsent is the batch form used by manifesting; each document is
// updated independently.
func (m *MongoOrderRepository) UpdateManyIfAbsent(ctx context.Context, orderIDs []string, guardField string, fields map[string]interface{}) (int64, error) {
	res, err := m.col.UpdateMany(ctx,
		bson.M{"order_id": bson.M{"$in": orderIDs}, guardField: bson.M{"$exists": false}},
		bson.M{"$set": withUpdatedAt(fields)})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (m *MongoOrderRepository) UpdateFieldsByAWB(ctx context.Context, awb, guardField string, fields map[string]interface{}) (bool, error) {
	res, err := m.col.UpdateOne(ctx,
		bson.M{"awb_response.AWB": awb, guardField + ".success": bson.M{"$ne": true}},
		bson.M{"$set": withUpdatedAt(fields)})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoOrderRepository) UpdateFieldsByID(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	_, err := m.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": withUpdatedAt(fields)})
	return err
}

func withUpdatedAt(fields map[string]interface{}) bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	return set
}
