package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kodeclass/kodex-api/internal/models"
)

func TestAnnouncementRepositoryPinnedFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnnouncementRepository(db)

	author := models.User{FullName: "Admin One", Email: "admin@example.com", Role: models.RoleAdmin}
	require.NoError(t, author.SetPassword("hunter22"))
	require.NoError(t, db.Create(&author).Error)

	pinned := models.Announcement{Title: "Pinned", Content: "ok", Pinned: true, CreatedBy: author.ID, CreatedAt: time.Now().Add(-48 * time.Hour)}
	recent := models.Announcement{Title: "Recent", Content: "ok", CreatedBy: author.ID, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), &pinned))
	require.NoError(t, repo.Create(context.Background(), &recent))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Pinned", items[0].Title, "expected pinned items before newer unpinned ones")
	require.Equal(t, "Admin One", items[0].Author.FullName)
}
