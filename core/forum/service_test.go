package forum

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/tmukana/uongozi/core"
	memoryqs "github.com/tmukana/uongozi/storage/query/memory"
)

func setup(t *testing.T) (*Service, *memoryqs.Service) {
	t.Helper()
	core.InitValidators()
	qs := memoryqs.Open()
	qs.Load("forum_categories",
		core.Record{"id": "c1", "name": "Leadership", "slug": "leadership"},
		core.Record{"id": "c2", "name": "Bible School", "slug": "bible-school"},
	)
	return NewService(qs), qs
}

func TestThreadsOrderedByActivity(t *testing.T) {
	svc, qs := setup(t)
	qs.Load("forum_threads",
		core.Record{"id": "t1", "category_id": "c1", "title": "Quiet", "author_id": "u1", "last_post_at": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		core.Record{"id": "t2", "category_id": "c1", "title": "Busy", "author_id": "u2", "last_post_at": time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)},
		core.Record{"id": "t3", "category_id": "c2", "title": "Elsewhere", "author_id": "u1", "last_post_at": time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)},
	)

	threads, err := svc.Threads(context.Background(), "c1", 0)
	assert.NoError(t, err)
	if assert.Len(t, threads, 2) {
		assert.Equal(t, "t2", threads[0].ID, "most recently active first")
	}
}

func TestCreateThreadAndReply(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	thread, err := svc.CreateThread(ctx, "c1", "u1", NewThread{Title: "Sabbaticals", Body: "How do you plan one?"})
	assert.NoError(t, err)
	assert.NotEmpty(t, thread.ID)

	post, err := svc.CreatePost(ctx, thread.ID, "u2", NewPost{Body: "Start a year out."})
	assert.NoError(t, err)
	assert.Equal(t, thread.ID, post.ThreadID)

	posts, err := svc.Posts(ctx, thread.ID)
	assert.NoError(t, err)
	assert.Len(t, posts, 2, "opening post plus reply")

	threads, err := svc.Threads(ctx, "c1", 0)
	assert.NoError(t, err)
	if assert.Len(t, threads, 1) {
		assert.False(t, threads[0].LastPostAt.IsZero())
	}
}

func TestCreateThreadUnknownCategory(t *testing.T) {
	svc, _ := setup(t)
	_, err := svc.CreateThread(context.Background(), "nope", "u1", NewThread{Title: "x", Body: "y"})
	assert.Equal(t, ErrCategoryNotFound, errors.Cause(err))
}

func TestCreatePostValidation(t *testing.T) {
	svc, _ := setup(t)
	_, err := svc.CreatePost(context.Background(), "t1", "u1", NewPost{})
	assert.Error(t, err)
}
