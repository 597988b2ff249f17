package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/article-engagement-api/internal/identity"
	"github.com/article-engagement-api/internal/models"
	"github.com/article-engagement-api/internal/repository"
	"github.com/article-engagement-api/internal/service"
)

// staleLikes reports every like as missing so the toggle always takes the
// insert path, as a request that lost the race to a concurrent insert would
type staleLikes struct {
	repository.LikeRepository
}

func (staleLikes) Exists(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestLikeRepo_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	ctx := context.Background()
	repo := repository.NewLikeRepo(testDB.DB)

	newLike := func(articleID, userID string) *models.Like {
		return &models.Like{
			ID:        uuid.NewString(),
			ArticleID: articleID,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		}
	}

	t.Run("duplicate pair is rejected by the unique constraint", func(t *testing.T) {
		testDB.TruncateTables(t, "article_likes")

		require.NoError(t, repo.Insert(ctx, newLike("A1", "U1")))
		err := repo.Insert(ctx, newLike("A1", "U1"))
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		count, err := repo.CountByArticle(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("exists, delete and count", func(t *testing.T) {
		testDB.TruncateTables(t, "article_likes")

		require.NoError(t, repo.Insert(ctx, newLike("A1", "U1")))
		require.NoError(t, repo.Insert(ctx, newLike("A1", "U2")))
		require.NoError(t, repo.Insert(ctx, newLike("A2", "U1")))

		exists, err := repo.Exists(ctx, "A1", "U1")
		require.NoError(t, err)
		assert.True(t, exists)

		count, err := repo.CountByArticle(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		removed, err := repo.Delete(ctx, "A1", "U1")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = repo.Delete(ctx, "A1", "U1")
		require.NoError(t, err)
		assert.False(t, removed)

		exists, err = repo.Exists(ctx, "A1", "U1")
		require.NoError(t, err)
		assert.False(t, exists)

		count, err = repo.CountByArticle(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		count, err = repo.CountByArticle(ctx, "A-none")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("lost insert race resolves to liked", func(t *testing.T) {
		testDB.TruncateTables(t, "article_likes")
		require.NoError(t, repo.Insert(ctx, newLike("A1", "U1")))

		services := service.NewServicesWithOptions(&repository.Repositories{
			Comment: repository.NewCommentRepo(testDB.DB),
			Like:    staleLikes{repo},
		}, service.Options{Timeout: 5 * time.Second}, zerolog.Nop())

		state, err := services.Like.Toggle(ctx, "A1", identity.Identity{UserID: "U1"})
		require.NoError(t, err)
		assert.Equal(t, models.LikeState{Liked: true, TotalLikes: 1}, *state)
	})

	t.Run("concurrent toggles leave at most one row", func(t *testing.T) {
		testDB.TruncateTables(t, "article_likes")

		services := service.NewServicesWithOptions(repository.New(testDB.DB),
			service.Options{Timeout: 5 * time.Second}, zerolog.Nop())
		caller := identity.Identity{UserID: "U1"}

		for round := 0; round < 20; round++ {
			articleID := fmt.Sprintf("A-%d", round)

			var wg sync.WaitGroup
			start := make(chan struct{})
			errs := make(chan error, 2)
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					_, err := services.Like.Toggle(ctx, articleID, caller)
					errs <- err
				}()
			}
			close(start)
			wg.Wait()
			close(errs)

			for err := range errs {
				require.NoError(t, err)
			}

			count, err := repo.CountByArticle(ctx, articleID)
			require.NoError(t, err)
			assert.LessOrEqual(t, count, 1, "article %s", articleID)
		}
	})
}

func TestCommentRepo_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	ctx := context.Background()
	repo := repository.NewCommentRepo(testDB.DB)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("create is refreshed from the stored row", func(t *testing.T) {
		testDB.TruncateTables(t, "comments")

		name := "User One"
		comment := models.NewComment(uuid.NewString(), "A1", "U1", "hello", base)
		comment.AuthorName = &name
		// not written by the insert; the returned row resets it
		comment.IsPinned = true
		comment.LikeCount = 7

		require.NoError(t, repo.Create(ctx, comment))

		assert.False(t, comment.IsPinned)
		assert.Zero(t, comment.LikeCount)
		assert.Equal(t, models.CommentStatusApproved, comment.Status)
		require.NotNil(t, comment.AuthorName)
		assert.Equal(t, "User One", *comment.AuthorName)
		assert.Nil(t, comment.AuthorEmail)
		assert.True(t, comment.CreatedAt.Time.Equal(base))

		got, err := repo.GetByID(ctx, comment.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "hello", got.Content)
		assert.True(t, got.UpdatedAt.Time.Equal(base))
	})

	t.Run("update is refreshed from the stored row", func(t *testing.T) {
		testDB.TruncateTables(t, "comments")

		comment := models.NewComment(uuid.NewString(), "A1", "U1", "before", base)
		require.NoError(t, repo.Create(ctx, comment))

		later := base.Add(time.Minute)
		comment.Content = "after"
		comment.IsEdited = true
		comment.UpdatedAt = models.NewTimestamp(later)
		comment.ReportCount = 3
		require.NoError(t, repo.Update(ctx, comment))

		assert.Equal(t, "after", comment.Content)
		assert.True(t, comment.IsEdited)
		assert.Zero(t, comment.ReportCount)
		assert.True(t, comment.UpdatedAt.Time.Equal(later))
		assert.True(t, comment.CreatedAt.Time.Equal(base))
	})

	t.Run("update and delete of a missing row", func(t *testing.T) {
		testDB.TruncateTables(t, "comments")

		missing := models.NewComment(uuid.NewString(), "A1", "U1", "ghost", base)
		assert.ErrorIs(t, repo.Update(ctx, missing), repository.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, missing.ID), repository.ErrNotFound)
	})

	t.Run("get by id misses", func(t *testing.T) {
		got, err := repo.GetByID(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.GetByID(ctx, "not-a-uuid")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list is newest first with undated rows last", func(t *testing.T) {
		testDB.TruncateTables(t, "comments")

		var ids []string
		for i := 0; i < 3; i++ {
			c := models.NewComment(uuid.NewString(), "A1", "U1", fmt.Sprintf("c%d", i), base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, repo.Create(ctx, c))
			ids = append(ids, c.ID)
		}
		other := models.NewComment(uuid.NewString(), "A2", "U1", "elsewhere", base)
		require.NoError(t, repo.Create(ctx, other))

		undated := uuid.NewString()
		_, err := testDB.DB.ExecContext(ctx, `
			INSERT INTO comments (id, article_id, author_id, content, created_at, updated_at)
			VALUES ($1, 'A1', 'U2', 'legacy', NULL, NULL)`, undated)
		require.NoError(t, err)

		comments, err := repo.ListByArticle(ctx, "A1")
		require.NoError(t, err)

		var got []string
		for _, c := range comments {
			got = append(got, c.ID)
		}
		assert.Equal(t, []string{ids[2], ids[1], ids[0], undated}, got)

		last := comments[len(comments)-1]
		assert.False(t, last.CreatedAt.Valid)
		assert.False(t, last.UpdatedAt.Valid)

		empty, err := repo.ListByArticle(ctx, "A-none")
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})

	t.Run("deleting a parent clears its replies' parent id", func(t *testing.T) {
		testDB.TruncateTables(t, "comments")

		parent := models.NewComment(uuid.NewString(), "A1", "U1", "parent", base)
		require.NoError(t, repo.Create(ctx, parent))

		reply := models.NewComment(uuid.NewString(), "A1", "U2", "reply", base.Add(time.Second))
		reply.ParentID = &parent.ID
		require.NoError(t, repo.Create(ctx, reply))
		require.NotNil(t, reply.ParentID)
		assert.Equal(t, parent.ID, *reply.ParentID)

		require.NoError(t, repo.Delete(ctx, parent.ID))

		got, err := repo.GetByID(ctx, reply.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.ParentID)
		assert.Equal(t, "reply", got.Content)
	})

	t.Run("unknown parent is an invalid reference", func(t *testing.T) {
		testDB.TruncateTables(t, "comments")

		ghost := uuid.NewString()
		reply := models.NewComment(uuid.NewString(), "A1", "U1", "orphan", base)
		reply.ParentID = &ghost

		err := repo.Create(ctx, reply)
		assert.ErrorIs(t, err, repository.ErrInvalidReference)
	})

	t.Run("content limit is enforced by the table", func(t *testing.T) {
		testDB.TruncateTables(t, "comments")

		long := make([]rune, models.MaxCommentLength+1)
		for i := range long {
			long[i] = 'x'
		}
		c := models.NewComment(uuid.NewString(), "A1", "U1", string(long), base)
		assert.Error(t, repo.Create(ctx, c))
	})
}

func TestDB_MigrateDownAndUp(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	ctx := context.Background()
	tableExists := func(name string) bool {
		t.Helper()
		var reg sql.NullString
		err := testDB.DB.QueryRowContext(ctx, "SELECT to_regclass($1)::text", "public."+name).Scan(&reg)
		require.NoError(t, err)
		return reg.Valid
	}

	require.True(t, tableExists("comments"))
	require.True(t, tableExists("article_likes"))

	require.NoError(t, testDB.DB.MigrateDown(testDB.MigrationsPath))
	assert.True(t, tableExists("comments"))
	assert.False(t, tableExists("article_likes"))

	require.NoError(t, testDB.DB.MigrateDown(testDB.MigrationsPath))
	assert.False(t, tableExists("comments"))

	// the migrator hands its connection back and leaves the pool open
	assert.Zero(t, testDB.DB.Stats().InUse)
	require.NoError(t, testDB.DB.HealthCheck(ctx))

	require.NoError(t, testDB.DB.RunMigrations(testDB.MigrationsPath))
	assert.True(t, tableExists("comments"))
	assert.True(t, tableExists("article_likes"))

	// already current
	require.NoError(t, testDB.DB.RunMigrations(testDB.MigrationsPath))
}
