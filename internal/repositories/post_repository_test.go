package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/blog-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func strPtr(s string) *string { return &s }

func postDoc(id primitive.ObjectID, title string, created time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "category", Value: "travel"},
		{Key: "rating", Value: 4.5},
		{Key: "createdAt", Value: created},
	}
}

func TestMongoPostRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list latest sends sort and limit", func(mt *mtest.T) {
		repo := NewMongoPostRepository(Connected(mt.DB))
		newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
		older := newer.Add(-time.Hour)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.blogs", mtest.FirstBatch,
			postDoc(primitive.NewObjectID(), "newer", newer),
			postDoc(primitive.NewObjectID(), "older", older),
		))

		posts, err := repo.ListLatest(context.Background(), "createdAt", 6)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "newer", posts[0].Title)
		assert.False(t, posts[0].CreatedAt.Before(posts[1].CreatedAt))

		cmd := mt.GetStartedEvent().Command
		assert.Equal(t, int64(6), cmd.Lookup("limit").Int64())
		assert.Equal(t, int32(-1), cmd.Lookup("sort", "createdAt").Int32())
	})

	mt.Run("list all returns empty slice, not nil", func(mt *mtest.T) {
		repo := NewMongoPostRepository(Connected(mt.DB))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.blogs", mtest.FirstBatch))

		posts, err := repo.ListAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	mt.Run("search creates the text index once", func(mt *mtest.T) {
		repo := NewMongoPostRepository(Connected(mt.DB))
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, "test.blogs", mtest.FirstBatch,
				postDoc(primitive.NewObjectID(), "go tips", time.Now())),
			mtest.CreateCursorResponse(0, "test.blogs", mtest.FirstBatch),
		)

		posts, err := repo.SearchByTitle(context.Background(), "go")
		require.NoError(t, err)
		require.Len(t, posts, 1)

		_, err = repo.SearchByTitle(context.Background(), "rust")
		require.NoError(t, err)

		assert.Equal(t, "createIndexes", mt.GetStartedEvent().CommandName)
		find := mt.GetStartedEvent()
		assert.Equal(t, "find", find.CommandName)
		assert.Equal(t, "go", find.Command.Lookup("filter", "$text", "$search").StringValue())
		assert.Equal(t, "find", mt.GetStartedEvent().CommandName)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoPostRepository(Connected(mt.DB))
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.blogs", mtest.FirstBatch,
			postDoc(id, "hello", time.Now())))

		post, err := repo.GetPostByID(context.Background(), id.Hex())
		require.NoError(t, err)
		assert.Equal(t, id, post.ID)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := NewMongoPostRepository(Connected(mt.DB))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.blogs", mtest.FirstBatch))

		_, err := repo.GetPostByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("get by malformed id never reaches the store", func(mt *mtest.T) {
		repo := NewMongoPostRepository(Connected(mt.DB))
		_, err := repo.GetPostByID(context.Background(), "not-an-id")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoPostRepository(Connected(mt.DB))
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		res, err := repo.CreatePost(context.Background(), &models.Post{Title: "t", CreatedAt: time.Now()})
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)
		assert.IsType(t, primitive.ObjectID{}, res.InsertedID)
	})

	mt.Run("update sets only the fields present", func(mt *mtest.T) {
		repo := NewMongoPostRepository(Connected(mt.DB))
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		res, err := repo.UpdatePost(context.Background(), primitive.NewObjectID().Hex(),
			&models.UpdatePostRequest{Title: strPtr("renamed")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(1), res.ModifiedCount)

		set := mt.GetStartedEvent().Command.Lookup("updates").Array().Index(0).Value().Document().Lookup("u", "$set").Document()
		assert.Equal(t, "renamed", set.Lookup("title").StringValue())
		for _, key := range []string{"rating", "createdAt", "category", "imageUrl"} {
			_, err := set.LookupErr(key)
			assert.Error(t, err, key)
		}
	})

	mt.Run("store error is wrapped", func(mt *mtest.T) {
		repo := NewMongoPostRepository(Connected(mt.DB))
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))

		_, err := repo.ListAll(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "find posts")
	})
}

func TestPostUpdateFields(t *testing.T) {
	set := PostUpdateFields(&models.UpdatePostRequest{
		Title:            strPtr("a"),
		ImageURL:         strPtr("https://img.example/a.png"),
		Category:         strPtr("food"),
		ShortDescription: strPtr("short"),
		LongDescription:  strPtr("long"),
	})
	assert.Len(t, set, 5)

	assert.Empty(t, PostUpdateFields(&models.UpdatePostRequest{}))
}
