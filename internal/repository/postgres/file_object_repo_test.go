package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkbox/internal/domain"
	"linkbox/internal/repository/postgres"
)

var fileColumns = []string{"id", "original_filename", "s3_key", "content_type", "size_bytes", "created_at"}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }

func TestFileObjectRepo_Create_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFileObjectRepo(db)

	created := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	obj := &domain.FileObject{
		ID:               "aB3xY9",
		OriginalFilename: "report.pdf",
		StorageKey:       "uploads/aB3xY9-report.pdf",
		ContentType:      strPtr("application/pdf"),
		SizeBytes:        int64Ptr(2048),
		CreatedAt:        created,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO files")).
		WithArgs(obj.ID, obj.OriginalFilename, obj.StorageKey, obj.ContentType, obj.SizeBytes, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), obj)
	require.NoError(t, err)
	assert.Equal(t, created, obj.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileObjectRepo_Create_SetsCreatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFileObjectRepo(db)

	obj := &domain.FileObject{ID: "abc123", OriginalFilename: "a.png", StorageKey: "uploads/abc123-a.png"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO files")).
		WithArgs("abc123", "a.png", "uploads/abc123-a.png", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), obj))
	assert.False(t, obj.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileObjectRepo_Create_DuplicateIsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFileObjectRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO files")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "files_pkey"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &domain.FileObject{ID: "abc123", StorageKey: "uploads/abc123-a"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileObjectRepo_Create_StoreFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFileObjectRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO files")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &domain.FileObject{ID: "abc123"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "fileObjectRepo.Create")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileObjectRepo_Create_CommitFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFileObjectRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO files")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err := repo.Create(context.Background(), &domain.FileObject{ID: "abc123"})
	assert.ErrorContains(t, err, "commit tx")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileObjectRepo_GetByID_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFileObjectRepo(db)

	created := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM files WHERE id = $1")).
		WithArgs("aB3xY9").
		WillReturnRows(sqlmock.NewRows(fileColumns).
			AddRow("aB3xY9", "report.pdf", "uploads/aB3xY9-report.pdf", "application/pdf", int64(2048), created))
	mock.ExpectCommit()

	obj, err := repo.GetByID(context.Background(), "aB3xY9")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", obj.OriginalFilename)
	assert.Equal(t, "uploads/aB3xY9-report.pdf", obj.StorageKey)
	require.NotNil(t, obj.ContentType)
	assert.Equal(t, "application/pdf", *obj.ContentType)
	require.NotNil(t, obj.SizeBytes)
	assert.Equal(t, int64(2048), *obj.SizeBytes)
	assert.Equal(t, created, obj.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileObjectRepo_GetByID_NullableColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFileObjectRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM files WHERE id = $1")).
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows(fileColumns).
			AddRow("abc123", "a.bin", "uploads/abc123-a.bin", nil, nil, time.Now()))
	mock.ExpectCommit()

	obj, err := repo.GetByID(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Nil(t, obj.ContentType)
	assert.Nil(t, obj.SizeBytes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileObjectRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFileObjectRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM files WHERE id = $1")).
		WithArgs("zzzzzz").
		WillReturnRows(sqlmock.NewRows(fileColumns))
	mock.ExpectRollback()

	obj, err := repo.GetByID(context.Background(), "zzzzzz")
	assert.Nil(t, obj)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileObjectRepo_GetByID_BeginFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFileObjectRepo(db)

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	obj, err := repo.GetByID(context.Background(), "abc123")
	assert.Nil(t, obj)
	assert.ErrorContains(t, err, "begin tx")
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
