package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/anonto42/blog-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	ListLatest(ctx context.Context, sortField string, limit int64) ([]models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	SearchByTitle(ctx context.Context, search string) ([]models.Post, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) (*models.InsertResult, error)
	UpdatePost(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.UpdateResult, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	db Database

	mu           sync.Mutex
	textIndexSet bool
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db Database) *MongoPostRepository {
	return &MongoPostRepository{db: db}
}

func (r *MongoPostRepository) collection() (*mongo.Collection, error) {
	return r.db.Collection("blogs")
}

// ListLatest returns up to limit posts ordered by sortField, newest or highest first.
func (r *MongoPostRepository) ListLatest(ctx context.Context, sortField string, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}}).SetLimit(limit)
	return r.find(ctx, bson.D{}, findOptions)
}

func (r *MongoPostRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.D{})
}

// SearchByTitle runs a $text query. The title text index is created on first use.
func (r *MongoPostRepository) SearchByTitle(ctx context.Context, search string) ([]models.Post, error) {
	if err := r.ensureTextIndex(ctx); err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"$text": bson.M{"$search": search}})
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}

	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = coll.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find post %s: %w", id, err)
	}
	return &post, nil
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) (*models.InsertResult, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	res, err := coll.InsertOne(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &models.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

// UpdatePost sets the whitelisted fields present in req. rating and createdAt are never touched.
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.UpdateResult, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}

	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	res, err := coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": PostUpdateFields(req)})
	if err != nil {
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}
	return &models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

// EnsureIndexes creates the title text index used by SearchByTitle.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	return r.ensureTextIndex(ctx)
}

// PostUpdateFields maps the non-nil request fields to their stored names.
func PostUpdateFields(req *models.UpdatePostRequest) bson.M {
	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.ImageURL != nil {
		set["imageUrl"] = *req.ImageURL
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.ShortDescription != nil {
		set["shortDescription"] = *req.ShortDescription
	}
	if req.LongDescription != nil {
		set["longDescription"] = *req.LongDescription
	}
	return set
}

func (r *MongoPostRepository) ensureTextIndex(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.textIndexSet {
		return nil
	}

	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: "text"}},
		Options: options.Index().SetName("title_text"),
	})
	if err != nil {
		return fmt.Errorf("create title text index: %w", err)
	}
	r.textIndexSet = true
	return nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Post, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := make([]models.Post, 0)
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}
