package authtokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/server/models"
)

const (
	insertQ = `(?s)^INSERT\s+INTO\s+auth_tokens\s*\(key,\s*user_id\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+issued_at$`
	findQ   = `(?s)^SELECT\s+key,\s*user_id,\s*issued_at\s+FROM\s+auth_tokens\s+WHERE\s+key\s*=\s*\$1$`
	deleteQ = `(?s)^DELETE\s+FROM\s+auth_tokens\s+WHERE\s+user_id\s*=\s*\$1$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	issued := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(insertQ).
		WithArgs("k1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"issued_at"}).AddRow(issued))

	tok := &models.AuthToken{Key: "k1", UserID: "u1"}
	if err := repo.Create(context.Background(), tok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tok.IssuedAt.Equal(issued) {
		t.Fatalf("IssuedAt = %v, want %v", tok.IssuedAt, issued)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("k1", "u1").
		WillReturnError(errors.New("boom"))

	err := repo.Create(context.Background(), &models.AuthToken{Key: "k1", UserID: "u1"})
	if err == nil || err.Error() != "db error: boom" {
		t.Fatalf("want wrapped db error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFind_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	issued := time.Now().UTC()
	mock.ExpectQuery(findQ).
		WithArgs("k1").
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "issued_at"}).AddRow("k1", "u1", issued))

	tok, err := repo.Find(context.Background(), "k1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Key != "k1" || tok.UserID != "u1" || !tok.IssuedAt.Equal(issued) {
		t.Fatalf("unexpected token: %+v", tok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFind_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findQ).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestFind_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findQ).
		WithArgs("k1").
		WillReturnError(errors.New("db down"))

	_, err := repo.Find(context.Background(), "k1")
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want non-NotFound error, got %v", err)
	}
}

func TestDeleteByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteQ).
		WithArgs("u2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByUser(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.DeleteByUser(context.Background(), "u2"); err != nil {
		t.Fatalf("deleting a missing token must not fail: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteByUser_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).
		WithArgs("u1").
		WillReturnError(errors.New("boom"))

	if err := repo.DeleteByUser(context.Background(), "u1"); err == nil {
		t.Fatal("expected error")
	}
}
