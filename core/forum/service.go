package forum

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tmukana/uongozi/core"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrThreadNotFound   = errors.New("thread not found")
)

const (
	categoriesTable = "forum_categories"
	threadsTable    = "forum_threads"
	postsTable      = "forum_posts"
)

// defaultThreadLimit caps a category listing page.
const defaultThreadLimit = 25

type Service struct {
	qs core.QueryService
}

func NewService(qs core.QueryService) *Service {
	return &Service{qs: qs}
}

func (svc *Service) Categories(ctx context.Context) ([]Category, error) {
	recs, err := svc.qs.Select(ctx, core.Query{
		Table: categoriesTable,
		Order: &core.DBOrdering{Field: "name", Ascending: true},
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}

	cats := make([]Category, 0, len(recs))
	for _, rec := range recs {
		cats = append(cats, Category{
			ID:          rec.String("id"),
			Name:        rec.String("name"),
			Slug:        rec.String("slug"),
			Description: rec.NullString("description"),
		})
	}
	return cats, nil
}

// Threads lists a category's threads, most recently active first.
func (svc *Service) Threads(ctx context.Context, categoryID string, limit int) ([]Thread, error) {
	if limit <= 0 || limit > defaultThreadLimit {
		limit = defaultThreadLimit
	}
	recs, err := svc.qs.Select(ctx, core.Query{
		Table:   threadsTable,
		Filters: []core.Filter{core.Eq("category_id", categoryID)},
		Order:   &core.DBOrdering{Field: "last_post_at", Ascending: false},
		Limit:   limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying threads")
	}

	threads := make([]Thread, 0, len(recs))
	for _, rec := range recs {
		threads = append(threads, mapThread(rec))
	}
	return threads, nil
}

func (svc *Service) Posts(ctx context.Context, threadID string) ([]Post, error) {
	recs, err := svc.qs.Select(ctx, core.Query{
		Table:   postsTable,
		Filters: []core.Filter{core.Eq("thread_id", threadID)},
		Order:   &core.DBOrdering{Field: "created_at", Ascending: true},
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}

	posts := make([]Post, 0, len(recs))
	for _, rec := range recs {
		posts = append(posts, mapPost(rec))
	}
	return posts, nil
}

// CreateThread opens a thread with its first post.
func (svc *Service) CreateThread(ctx context.Context, categoryID, authorID string, nt NewThread) (Thread, error) {
	if err := core.Validate.Struct(nt); err != nil {
		return Thread{}, err
	}
	if _, err := svc.category(ctx, categoryID); err != nil {
		return Thread{}, err
	}

	now := time.Now().UTC()
	rec, err := svc.qs.Insert(ctx, threadsTable, core.Record{
		"category_id":  categoryID,
		"title":        core.CleanString(nt.Title),
		"author_id":    authorID,
		"last_post_at": now,
	})
	if err != nil {
		return Thread{}, errors.Wrap(err, "inserting thread")
	}
	thread := mapThread(rec)

	if _, err = svc.qs.Insert(ctx, postsTable, core.Record{
		"thread_id": thread.ID,
		"author_id": authorID,
		"body":      core.CleanString(nt.Body),
	}); err != nil {
		return Thread{}, errors.Wrap(err, "inserting first post")
	}
	return thread, nil
}

// CreatePost replies to a thread and bumps its activity timestamp.
func (svc *Service) CreatePost(ctx context.Context, threadID, authorID string, np NewPost) (Post, error) {
	if err := core.Validate.Struct(np); err != nil {
		return Post{}, err
	}
	if _, err := svc.thread(ctx, threadID); err != nil {
		return Post{}, err
	}

	rec, err := svc.qs.Insert(ctx, postsTable, core.Record{
		"thread_id": threadID,
		"author_id": authorID,
		"body":      core.CleanString(np.Body),
	})
	if err != nil {
		return Post{}, errors.Wrap(err, "inserting post")
	}
	post := mapPost(rec)

	bump := post.CreatedAt
	if bump.IsZero() {
		bump = time.Now().UTC()
	}
	if err = svc.qs.Update(ctx, threadsTable, threadID, core.Record{"last_post_at": bump}); err != nil {
		return Post{}, errors.Wrap(err, "bumping thread")
	}
	return post, nil
}

func (svc *Service) category(ctx context.Context, id string) (core.Record, error) {
	recs, err := svc.qs.Select(ctx, core.Query{
		Table:   categoriesTable,
		Filters: []core.Filter{core.Eq("id", id)},
		Limit:   1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying category")
	}
	if len(recs) == 0 {
		return nil, ErrCategoryNotFound
	}
	return recs[0], nil
}

func (svc *Service) thread(ctx context.Context, id string) (core.Record, error) {
	recs, err := svc.qs.Select(ctx, core.Query{
		Table:   threadsTable,
		Filters: []core.Filter{core.Eq("id", id)},
		Limit:   1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying thread")
	}
	if len(recs) == 0 {
		return nil, ErrThreadNotFound
	}
	return recs[0], nil
}

func mapThread(rec core.Record) Thread {
	thread := Thread{
		ID:         rec.String("id"),
		CategoryID: rec.String("category_id"),
		Title:      rec.String("title"),
		AuthorID:   rec.String("author_id"),
	}
	if t, ok := rec.Time("created_at"); ok {
		thread.CreatedAt = t
	}
	if t, ok := rec.Time("last_post_at"); ok {
		thread.LastPostAt = t
	}
	return thread
}

func mapPost(rec core.Record) Post {
	post := Post{
		ID:       rec.String("id"),
		ThreadID: rec.String("thread_id"),
		AuthorID: rec.String("author_id"),
		Body:     rec.String("body"),
	}
	if t, ok := rec.Time("created_at"); ok {
		post.CreatedAt = t
	}
	return post
}
