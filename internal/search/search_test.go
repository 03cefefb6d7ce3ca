package search

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/repo"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	return &Service{Repo: repo.New(db)}
}

func TestSearchFallsBackToSQL(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	products := []models.Product{
		{NameUz: "Osh", NameRu: "Плов", Price: 25000, IsAvailable: true},
		{NameUz: "Lagmon", NameRu: "Лагман", Price: 30000, IsAvailable: true},
		{NameUz: "Somsa", NameRu: "Самса", Price: 8000, IsAvailable: false},
	}
	require.NoError(t, s.Repo.DB.Create(&products).Error)

	// No ES client configured; the LIKE scan serves the query.
	got, err := s.Search(ctx, "osh", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Osh", got[0].NameUz)

	// Substring matches count.
	got, err = s.Search(ctx, "agmon", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Lagmon", got[0].NameUz)

	// Unavailable products never surface.
	got, err = s.Search(ctx, "somsa", 10)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSearchNoMatches(t *testing.T) {
	s := newTestService(t)

	got, err := s.Search(context.Background(), "pizza", 10)
	require.NoError(t, err)
	require.Empty(t, got)
}
