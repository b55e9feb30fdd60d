package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/blog-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WishlistRepository defines the interface for wishlist operations
type WishlistRepository interface {
	// AddIfAbsent stores entry unless one with the same wish_id exists. The bool reports whether it was inserted.
	AddIfAbsent(ctx context.Context, entry *models.WishlistEntry) (*models.InsertResult, bool, error)
	GetByEmail(ctx context.Context, email string) ([]models.WishlistEntry, error)
	DeleteByID(ctx context.Context, id string) (*models.DeleteResult, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoWishlistRepository implements WishlistRepository for MongoDB
type MongoWishlistRepository struct {
	db Database
}

func NewMongoWishlistRepository(db Database) *MongoWishlistRepository {
	return &MongoWishlistRepository{db: db}
}

func (r *MongoWishlistRepository) collection() (*mongo.Collection, error) {
	return r.db.Collection("wishlist")
}

// AddIfAbsent is a single upsert with $setOnInsert, so concurrent requests for one wish_id cannot both insert.
func (r *MongoWishlistRepository) AddIfAbsent(ctx context.Context, entry *models.WishlistEntry) (*models.InsertResult, bool, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, false, err
	}
	res, err := coll.UpdateOne(ctx,
		bson.M{"wish_id": entry.WishID},
		bson.M{"$setOnInsert": entry},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// two upserts racing on the unique index: the loser sees E11000
		if mongo.IsDuplicateKeyError(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("upsert wishlist entry: %w", err)
	}
	if res.UpsertedCount == 0 {
		return nil, false, nil
	}
	return &models.InsertResult{Acknowledged: true, InsertedID: res.UpsertedID}, true, nil
}

func (r *MongoWishlistRepository) GetByEmail(ctx context.Context, email string) ([]models.WishlistEntry, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("find wishlist: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.WishlistEntry, 0)
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode wishlist: %w", err)
	}
	return entries, nil
}

func (r *MongoWishlistRepository) DeleteByID(ctx context.Context, id string) (*models.DeleteResult, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return nil, fmt.Errorf("delete wishlist entry %s: %w", id, err)
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// EnsureIndexes creates the unique wish_id index and the email lookup index.
func (r *MongoWishlistRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "wish_id", Value: 1}},
			Options: options.Index().SetName("wish_id_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_1"),
		},
	})
	if err != nil {
		return fmt.Errorf("create wishlist indexes: %w", err)
	}
	return nil
}
