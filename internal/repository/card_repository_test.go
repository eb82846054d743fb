package repository_test

import (
	"context"
	"testing"

	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCardRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCardRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "cards"`).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	card, err := repo.GetByID(context.Background(), uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, card)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_UpdatePositions(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCardRepository(gormDB)

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cards" SET "position"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := repo.UpdatePositions(context.Background(), map[uuid.UUID]float64{id: 2})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_SoftDelete_CascadesToComments(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCardRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cards" SET "is_deleted"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "comments" SET "is_deleted"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	// Act
	err := repo.SoftDelete(context.Background(), uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_SearchInBoards_EmptyScope(t *testing.T) {
	// Arrange: no boards means no query should reach the database.
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCardRepository(gormDB)

	// Act
	cards, err := repo.SearchInBoards(context.Background(), nil, "release", 50)

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, cards)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_CountArchived(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCardRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	// Act
	count, err := repo.CountArchived(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
