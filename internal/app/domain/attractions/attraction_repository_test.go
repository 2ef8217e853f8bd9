package attractions

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

func newMockRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock, zap.NewNop()), mock
}

func attractionRow(id uuid.UUID, name, category string, rating float64, featured bool) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "name", "name_es", "description", "description_es", "category",
		"latitude", "longitude", "address", "image_url", "ticket_price", "opening_hours",
		"rating", "is_featured", "created_at", "updated_at",
	}).AddRow(
		id, name, nil, "desc", nil, category,
		18.5195, 73.8553, nil, nil, 25.0, nil,
		rating, featured, now, now,
	)
}

func TestListAttractionsBuildsFilteredQuery(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+attractionColumns+" FROM attractions "+
			"WHERE category = $1 AND is_featured = $2 AND rating >= $3 "+
			"ORDER BY rating DESC, name ASC")).
		WithArgs("heritage", true, 4.0).
		WillReturnRows(attractionRow(id, "Shaniwar Wada", "heritage", 4.5, true))

	got, err := repo.ListAttractions(context.Background(), Filter{
		Category:     "heritage",
		FeaturedOnly: true,
		MinRating:    4.0,
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Shaniwar Wada", got[0].Name)
	assert.Equal(t, models.CategoryHeritage, got[0].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAttractionsSearchMatchesNameOrDescription(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+attractionColumns+" FROM attractions "+
			"WHERE (name ILIKE $1 OR description ILIKE $2) "+
			"ORDER BY rating DESC, name ASC")).
		WithArgs("%wada%", "%wada%").
		WillReturnRows(attractionRow(uuid.New(), "Shaniwar Wada", "heritage", 4.5, true))

	got, err := repo.ListAttractions(context.Background(), Filter{Search: "wada"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAttractionNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM attractions WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	got, err := repo.GetAttraction(context.Background(), id)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAttractionNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attractions WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeleteAttraction(context.Background(), id)

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAttractionNames(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM attractions ORDER BY name")).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).
			AddRow("Aga Khan Palace").
			AddRow("Shaniwar Wada"))

	names, err := repo.GetAttractionNames(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Aga Khan Palace", "Shaniwar Wada"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}
