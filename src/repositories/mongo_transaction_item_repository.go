package repositories

import (
	"context"
	"errors"

	"tracker/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoTransactionItemRepo struct {
	collection *mongo.Collection
}

func NewMongoTransactionItemRepository(collection *mongo.Collection) TransactionItemRepository {
	return &mongoTransactionItemRepo{collection: collection}
}

func (r *mongoTransactionItemRepo) FindByOwner(ctx context.Context, userID string, sort models.Sort) ([]models.TransactionItem, error) {
	direction := 1
	if sort.Desc() {
		direction = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: sort.Column(), Value: direction}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.TransactionItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongoTransactionItemRepo) findOne(ctx context.Context, filter bson.M) (*models.TransactionItem, error) {
	var item models.TransactionItem
	if err := r.collection.FindOne(ctx, filter).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *mongoTransactionItemRepo) FindByIDAndOwner(ctx context.Context, id, userID string) (*models.TransactionItem, error) {
	return r.findOne(ctx, bson.M{"_id": id, "userId": userID})
}

func (r *mongoTransactionItemRepo) Insert(ctx context.Context, item *models.TransactionItem) error {
	_, err := r.collection.InsertOne(ctx, item)
	return err
}

func (r *mongoTransactionItemRepo) updateOne(ctx context.Context, filter bson.M, f models.TransactionFields) (*models.TransactionItem, error) {
	update := bson.M{"$set": bson.M{
		"description": f.Description,
		"amount":      f.Amount,
		"category":    f.Category,
		"date":        f.Date,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.TransactionItem
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *mongoTransactionItemRepo) UpdateByID(ctx context.Context, id string, f models.TransactionFields) (*models.TransactionItem, error) {
	return r.updateOne(ctx, bson.M{"_id": id}, f)
}

func (r *mongoTransactionItemRepo) UpdateByIDAndOwner(ctx context.Context, id, userID string, f models.TransactionFields) (*models.TransactionItem, error) {
	return r.updateOne(ctx, bson.M{"_id": id, "userId": userID}, f)
}

func (r *mongoTransactionItemRepo) SoftDelete(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"isDeleted": true}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoTransactionItemRepo) DeleteByIDAndOwner(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoTransactionItemRepo) AggregateByCategory(ctx context.Context, userID string) ([]models.CategoryTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "isDeleted": false}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "total": bson.M{"$sum": "$amount"}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	totals := []models.CategoryTotal{}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *mongoTransactionItemRepo) RenameCategory(ctx context.Context, userID, oldCategory, newCategory string) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"userId": userID, "category": oldCategory},
		bson.M{"$set": bson.M{"category": newCategory}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
