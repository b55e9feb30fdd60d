package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/blog-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) (*models.InsertResult, error)
	GetCommentsByBlogID(ctx context.Context, blogID string) ([]models.Comment, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	db Database
}

func NewMongoCommentRepository(db Database) *MongoCommentRepository {
	return &MongoCommentRepository{db: db}
}

func (r *MongoCommentRepository) collection() (*mongo.Collection, error) {
	return r.db.Collection("comments")
}

func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) (*models.InsertResult, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	res, err := coll.InsertOne(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &models.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

// GetCommentsByBlogID matches blog_id as a plain string, not an ObjectID.
func (r *MongoCommentRepository) GetCommentsByBlogID(ctx context.Context, blogID string) ([]models.Comment, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx, bson.M{"blog_id": blogID})
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := make([]models.Comment, 0)
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

func (r *MongoCommentRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "blog_id", Value: 1}},
		Options: options.Index().SetName("blog_id_1"),
	})
	if err != nil {
		return fmt.Errorf("create blog_id index: %w", err)
	}
	return nil
}
