// Package repotest provides in-memory repositories for handler and router tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/blog-backend/internal/models"
	"github.com/anonto42/blog-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Posts is an in-memory repositories.PostRepository. Err, when set, is returned by every call.
type Posts struct {
	mu    sync.Mutex
	Items []models.Post
	Err   error
}

var _ repositories.PostRepository = (*Posts)(nil)

func (p *Posts) ListLatest(ctx context.Context, sortField string, limit int64) ([]models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	out := append([]models.Post(nil), p.Items...)
	sort.SliceStable(out, func(i, j int) bool {
		if sortField == "rating" {
			return out[i].Rating > out[j].Rating
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (p *Posts) ListAll(ctx context.Context) ([]models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	return append([]models.Post{}, p.Items...), nil
}

// SearchByTitle approximates $text: a post matches when any search term is a word of its title.
func (p *Posts) SearchByTitle(ctx context.Context, search string) ([]models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	terms := strings.Fields(strings.ToLower(search))
	out := []models.Post{}
	for _, post := range p.Items {
		words := strings.Fields(strings.ToLower(post.Title))
		if containsAny(words, terms) {
			out = append(out, post)
		}
	}
	return out, nil
}

func (p *Posts) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}
	for i := range p.Items {
		if p.Items[i].ID == oid {
			post := p.Items[i]
			return &post, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (p *Posts) CreatePost(ctx context.Context, post *models.Post) (*models.InsertResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	p.Items = append(p.Items, *post)
	return &models.InsertResult{Acknowledged: true, InsertedID: post.ID}, nil
}

func (p *Posts) UpdatePost(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.UpdateResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}
	res := &models.UpdateResult{Acknowledged: true}
	for i := range p.Items {
		if p.Items[i].ID != oid {
			continue
		}
		res.MatchedCount = 1
		res.ModifiedCount = 1
		post := &p.Items[i]
		for key, value := range repositories.PostUpdateFields(req) {
			v := value.(string)
			switch key {
			case "title":
				post.Title = v
			case "imageUrl":
				post.ImageURL = v
			case "category":
				post.Category = v
			case "shortDescription":
				post.ShortDescription = v
			case "longDescription":
				post.LongDescription = v
			}
		}
	}
	return res, nil
}

func (p *Posts) EnsureIndexes(ctx context.Context) error { return p.Err }

// Comments is an in-memory repositories.CommentRepository.
type Comments struct {
	mu    sync.Mutex
	Items []models.Comment
	Err   error
}

var _ repositories.CommentRepository = (*Comments)(nil)

func (r *Comments) CreateComment(ctx context.Context, comment *models.Comment) (*models.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	comment.ID = primitive.NewObjectID()
	r.Items = append(r.Items, *comment)
	return &models.InsertResult{Acknowledged: true, InsertedID: comment.ID}, nil
}

func (r *Comments) GetCommentsByBlogID(ctx context.Context, blogID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []models.Comment{}
	for _, c := range r.Items {
		if c.BlogID == blogID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *Comments) EnsureIndexes(ctx context.Context) error { return r.Err }

// Wishlist is an in-memory repositories.WishlistRepository with the same wish_id uniqueness.
type Wishlist struct {
	mu    sync.Mutex
	Items []models.WishlistEntry
	Err   error
}

var _ repositories.WishlistRepository = (*Wishlist)(nil)

func (w *Wishlist) AddIfAbsent(ctx context.Context, entry *models.WishlistEntry) (*models.InsertResult, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return nil, false, w.Err
	}
	for _, e := range w.Items {
		if e.WishID == entry.WishID {
			return nil, false, nil
		}
	}
	entry.ID = primitive.NewObjectID()
	w.Items = append(w.Items, *entry)
	return &models.InsertResult{Acknowledged: true, InsertedID: entry.ID}, true, nil
}

func (w *Wishlist) GetByEmail(ctx context.Context, email string) ([]models.WishlistEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return nil, w.Err
	}
	out := []models.WishlistEntry{}
	for _, e := range w.Items {
		if e.Email == email {
			out = append(out, e)
		}
	}
	return out, nil
}

func (w *Wishlist) DeleteByID(ctx context.Context, id string) (*models.DeleteResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return nil, w.Err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}
	res := &models.DeleteResult{Acknowledged: true}
	for i, e := range w.Items {
		if e.ID == oid {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			res.DeletedCount = 1
			break
		}
	}
	return res, nil
}

func (w *Wishlist) EnsureIndexes(ctx context.Context) error { return w.Err }

// Len reports the number of stored entries.
func (w *Wishlist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Items)
}

// Revocations is an in-memory repositories.RevokedTokenRepository.
type Revocations struct {
	mu      sync.Mutex
	Expires map[string]time.Time
	Err     error
}

var _ repositories.RevokedTokenRepository = (*Revocations)(nil)

func (r *Revocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if r.Expires == nil {
		r.Expires = map[string]time.Time{}
	}
	r.Expires[jti] = expiresAt
	return nil
}

func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	exp, ok := r.Expires[jti]
	return ok && exp.After(time.Now()), nil
}

func (r *Revocations) PurgeExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for jti, exp := range r.Expires {
		if !exp.After(time.Now()) {
			delete(r.Expires, jti)
			n++
		}
	}
	return n, nil
}

func containsAny(words, terms []string) bool {
	for _, w := range words {
		for _, t := range terms {
			if w == t {
				return true
			}
		}
	}
	return false
}
