package db

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yatube/yatube/internal/models"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open in-memory database")

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	require.NoError(t, err, "failed to migrate schema")

	return NewRepository(gdb)
}

func createTestUser(t *testing.T, repo *Repository, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	require.NoError(t, NewUserRepository(repo).Create(context.Background(), user))
	return user
}

func createTestGroup(t *testing.T, repo *Repository, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug}
	require.NoError(t, NewGroupRepository(repo).Create(context.Background(), group))
	return group
}

func TestGroupCreateDuplicateSlug(t *testing.T) {
	repo := newTestRepo(t)
	groups := NewGroupRepository(repo)
	ctx := context.Background()

	require.NoError(t, groups.Create(ctx, &models.Group{Title: "First", Slug: "shared-slug"}))

	err := groups.Create(ctx, &models.Group{Title: "Second", Slug: "shared-slug"})
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestGroupGetBySlugNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := NewGroupRepository(repo).GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupDeleteNullifiesPosts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	posts := NewPostRepository(repo)
	groups := NewGroupRepository(repo)

	author := createTestUser(t, repo, "author")
	group := createTestGroup(t, repo, "doomed")

	post := &models.Post{
		Text:     "survives its group",
		AuthorID: author.ID,
		GroupID:  sql.NullInt64{Int64: group.ID, Valid: true},
	}
	require.NoError(t, posts.Create(ctx, post))

	require.NoError(t, groups.Delete(ctx, group.ID))

	_, err := groups.GetBySlug(ctx, "doomed")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, got.GroupID.Valid, "post should lose its group reference, not be deleted")
	assert.Equal(t, "survives its group", got.Text)
}

func TestPostDeleteCascadesComments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	posts := NewPostRepository(repo)
	comments := NewCommentRepository(repo)

	author := createTestUser(t, repo, "author")
	post := &models.Post{Text: "with comments", AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, post))

	for i := 0; i < 3; i++ {
		require.NoError(t, comments.Create(ctx, &models.Comment{
			PostID:   sql.NullInt64{Int64: post.ID, Valid: true},
			AuthorID: author.ID,
			Text:     fmt.Sprintf("comment %d", i),
		}))
	}

	require.NoError(t, posts.Delete(ctx, post.ID))

	_, err := posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	remaining, err := comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining, "comments should be deleted with their post")
}

func TestPostCreateDefaults(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	posts := NewPostRepository(repo)

	author := createTestUser(t, repo, "author")
	post := &models.Post{Text: "untitled body", AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, post))

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTitle, got.Title)
	assert.False(t, got.PubDate.IsZero(), "pub date should be set at creation")
}

func TestPostUpdateKeepsPubDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	posts := NewPostRepository(repo)

	author := createTestUser(t, repo, "author")
	post := &models.Post{Text: "original", AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, post))
	original := post.PubDate

	err := posts.Update(ctx, post.ID, map[string]interface{}{
		"text":     "edited",
		"pub_date": time.Now().UTC().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
	assert.True(t, got.PubDate.Equal(original), "pub date must never change after creation")
}

func TestPostUpdateNotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := NewPostRepository(repo).Update(context.Background(), 9999,
		map[string]interface{}{"text": "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostListOrderAndPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	posts := NewPostRepository(repo)

	author := createTestUser(t, repo, "author")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		require.NoError(t, posts.Create(ctx, &models.Post{
			Text:     fmt.Sprintf("post %02d", i),
			AuthorID: author.ID,
			PubDate:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	first, err := posts.List(ctx, PostFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.Equal(t, "post 12", first[0].Text, "newest post comes first")

	second, err := posts.List(ctx, PostFilter{}, 10, 10)
	require.NoError(t, err)
	require.Len(t, second, 3)
	assert.Equal(t, "post 02", second[0].Text)
	assert.Equal(t, "post 00", second[2].Text)

	count, err := posts.Count(ctx, PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(13), count)
}

func TestPostListTiesBrokenByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	posts := NewPostRepository(repo)

	author := createTestUser(t, repo, "author")
	moment := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, posts.Create(ctx, &models.Post{
			Text:     fmt.Sprintf("tied %d", i),
			AuthorID: author.ID,
			PubDate:  moment,
		}))
	}

	listed, err := posts.List(ctx, PostFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "tied 0", listed[0].Text, "equal timestamps fall back to insertion order")
	assert.Equal(t, "tied 2", listed[2].Text)
}

func TestPostListFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	posts := NewPostRepository(repo)

	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	group := createTestGroup(t, repo, "travel")

	require.NoError(t, posts.Create(ctx, &models.Post{
		Text:     "alice grouped",
		AuthorID: alice.ID,
		GroupID:  sql.NullInt64{Int64: group.ID, Valid: true},
	}))
	require.NoError(t, posts.Create(ctx, &models.Post{Text: "alice solo", AuthorID: alice.ID}))
	require.NoError(t, posts.Create(ctx, &models.Post{Text: "bob solo", AuthorID: bob.ID}))

	byGroup, err := posts.List(ctx, PostFilter{GroupID: &group.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, byGroup, 1)
	assert.Equal(t, "alice grouped", byGroup[0].Text)

	byAuthor, err := posts.List(ctx, PostFilter{AuthorID: &bob.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "bob solo", byAuthor[0].Text)

	bySet, err := posts.List(ctx, PostFilter{AuthorIDs: []int64{alice.ID}}, 0, 10)
	require.NoError(t, err)
	assert.Len(t, bySet, 2)

	byEmptySet, err := posts.List(ctx, PostFilter{AuthorIDs: []int64{}}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, byEmptySet, "empty author set matches nothing, not everything")
}

func TestFollowCreateIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	follows := NewFollowRepository(repo)

	user := createTestUser(t, repo, "reader")
	author := createTestUser(t, repo, "writer")

	created, err := follows.Create(ctx, &models.Follow{UserID: user.ID, AuthorID: author.ID})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = follows.Create(ctx, &models.Follow{UserID: user.ID, AuthorID: author.ID})
	require.NoError(t, err)
	assert.False(t, created, "duplicate insert must be a no-op")

	ids, err := follows.AuthorIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{author.ID}, ids)
}

func TestFollowDeleteMissingEdge(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	follows := NewFollowRepository(repo)

	user := createTestUser(t, repo, "reader")
	author := createTestUser(t, repo, "writer")

	assert.NoError(t, follows.Delete(ctx, user.ID, author.ID))
}

func TestUserGetByUsernameNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := NewUserRepository(repo).GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	posts := NewPostRepository(repo)
	comments := NewCommentRepository(repo)

	author := createTestUser(t, repo, "author")
	post := &models.Post{Text: "discussed", AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, post))

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, comments.Create(ctx, &models.Comment{
			PostID:   sql.NullInt64{Int64: post.ID, Valid: true},
			AuthorID: author.ID,
			Text:     fmt.Sprintf("reply %d", i),
			PubDate:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	listed, err := comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "reply 2", listed[0].Text)
	assert.Equal(t, "reply 0", listed[2].Text)
}
