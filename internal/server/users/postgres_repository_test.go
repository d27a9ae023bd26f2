package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/myumkm/myumkm/internal/common"
	"github.com/myumkm/myumkm/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const qCreate = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*name,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at,\s*updated_at\s*$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)
	mock.ExpectQuery(qCreate).
		WithArgs("user_ab12cd", "Budi", "budi@example.com", []byte("hash")).
		WillReturnRows(rows)

	u := &models.User{ID: "user_ab12cd", Name: "Budi", Email: "budi@example.com", PasswordHash: []byte("hash")}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "user_ab12cd" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qCreate).
		WithArgs("user_ab12cd", "Budi", "budi@example.com", []byte("hash")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_idx"})

	u := &models.User{ID: "user_ab12cd", Name: "Budi", Email: "budi@example.com", PasswordHash: []byte("hash")}
	_, err := repo.Create(context.Background(), u)
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*email,\s*password_hash,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s*$`

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}).
		AddRow("user_ab12cd", "Budi", "budi@example.com", []byte("hash"), now, now)
	mock.ExpectQuery(q).
		WithArgs("budi@example.com").
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "budi@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "user_ab12cd" || got.Email != "budi@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*email,\s*password_hash,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s*$`

	mock.ExpectQuery(q).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*email,\s*password_hash,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).
		WithArgs("user_missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "user_missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestList_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*email,\s*created_at,\s*updated_at\s+FROM\s+users\s+ORDER\s+BY\s+created_at\s+DESC\s*$`

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "created_at", "updated_at"}).
		AddRow("user_b", "Bob", "bob@example.com", now, now).
		AddRow("user_a", "Alice", "alice@example.com", now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "user_b" || got[1].ID != "user_a" {
		t.Fatalf("unexpected users: %+v", got)
	}
}
