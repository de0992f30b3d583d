package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"linkbox/internal/domain"
	"linkbox/internal/port"
)

// SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type fileObjectRepo struct {
	db *sqlx.DB
}

// NewFileObjectRepo creates a new PostgreSQL-backed FileObjectRepository.
// The files table must already exist; see db/migrations.
func NewFileObjectRepo(db *sqlx.DB) port.FileObjectRepository {
	return &fileObjectRepo{db: db}
}

func (r *fileObjectRepo) Create(ctx context.Context, obj *domain.FileObject) error {
	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO files
		(id, original_filename, s3_key, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	err := WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			obj.ID, obj.OriginalFilename, obj.StorageKey, obj.ContentType,
			obj.SizeBytes, obj.CreatedAt)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("fileObjectRepo.Create: %w", domain.ErrConflict)
		}
		return fmt.Errorf("fileObjectRepo.Create: %w", err)
	}
	return nil
}

func (r *fileObjectRepo) GetByID(ctx context.Context, id string) (*domain.FileObject, error) {
	var obj domain.FileObject
	err := WithTx(ctx, r.db, &sql.TxOptions{ReadOnly: true}, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &obj,
			`SELECT id, original_filename, s3_key, content_type, size_bytes, created_at
			 FROM files WHERE id = $1`, id)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fileObjectRepo.GetByID: %w", err)
	}
	return &obj, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
