package user

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresRepository_FindByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "email", "password"}).AddRow(3, "a@b.com", "$2a$hash")
	mock.ExpectQuery(`WHERE lower\(email\) = lower\(\$1\)`).WithArgs("A@B.com").WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "A@B.com")
	require.NoError(t, err)
	assert.Equal(t, User{ID: 3, Email: "a@b.com", Password: "$2a$hash"}, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_FindByEmailNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM users").WithArgs("x@b.com").WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password"}))

	_, err := repo.FindByEmail(context.Background(), "x@b.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_FindByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "email", "password"}).AddRow(9, "z@b.com", "h")
	mock.ExpectQuery(`WHERE id = \$1`).WithArgs(int64(9)).WillReturnRows(rows)
	mock.ExpectQuery(`WHERE id = \$1`).WithArgs(int64(10)).WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password"}))

	user, err := repo.FindByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "z@b.com", user.Email)

	_, err = repo.FindByID(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Insert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO users").WithArgs("a@b.com", "h").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	user, err := repo.Insert(context.Background(), User{Email: "a@b.com", Password: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_InsertUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO users").WithArgs("a@b.com", "h").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_key"})

	_, err := repo.Insert(context.Background(), User{Email: "a@b.com", Password: "h"})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_InsertOtherError(t *testing.T) {
	repo, mock := newMockRepo(t)

	boom := errors.New("connection reset")
	mock.ExpectQuery("INSERT INTO users").WillReturnError(boom)

	_, err := repo.Insert(context.Background(), User{Email: "a@b.com", Password: "h"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrEmailExists)
}
