package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/communityhub/core/internal/domain/entities"
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

// requireAffected turns a zero-row result into notFound.
func requireAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

// versionOrNotFound disambiguates a version-guarded UPDATE that touched
// no rows: the row either does not exist or carries a different version.
func versionOrNotFound(ctx context.Context, db *sqlx.DB, table string, id uuid.UUID, notFound error) error {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	if err := db.GetContext(ctx, &exists, query, id); err != nil {
		return fmt.Errorf("check %s existence: %w", table, err)
	}
	if exists {
		return entities.ErrVersionConflict
	}
	return notFound
}
