package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrInvalidID is returned when a path id is not a valid ObjectID hex string.
	ErrInvalidID = errors.New("invalid id format")
	ErrNotFound  = errors.New("document not found")
	// ErrStoreUnavailable is returned while no MongoDB client has been established.
	ErrStoreUnavailable = errors.New("document store unavailable")
)

// Database hands out collections of the blog database.
type Database interface {
	Collection(name string) (*mongo.Collection, error)
}

type connectedDatabase struct {
	db *mongo.Database
}

// Connected wraps a database whose client already exists.
func Connected(db *mongo.Database) Database {
	return connectedDatabase{db: db}
}

func (d connectedDatabase) Collection(name string) (*mongo.Collection, error) {
	return d.db.Collection(name), nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
