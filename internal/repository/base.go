// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"

	"even/internal/database"
	"even/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, pgUniqueViolation)
}

// lockForUpdate takes a row lock on dialects that support SELECT ... FOR UPDATE.
// SQLite serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// counterDelta is one atomic adjustment of a denormalized counter.
type counterDelta struct {
	table  string
	column string
	id     uint
	delta  int
}

// applyCounters adjusts counters in place with SQL expressions so concurrent
// transactions never lose an update. Decrements clamp at zero.
func applyCounters(tx *gorm.DB, deltas ...counterDelta) error {
	for _, d := range deltas {
		if d.delta == 0 {
			continue
		}
		expr := gorm.Expr(d.column+" + ?", d.delta)
		if d.delta < 0 {
			n := -d.delta
			expr = gorm.Expr("CASE WHEN "+d.column+" >= ? THEN "+d.column+" - ? ELSE 0 END", n, n)
		}
		if err := tx.Table(d.table).Where("id = ?", d.id).UpdateColumn(d.column, expr).Error; err != nil {
			return err
		}
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching q as a literal substring.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}

// wrapStoreError maps storage errors onto the application taxonomy.
func wrapStoreError(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	if isUniqueConstraintError(err) {
		return models.NewConflictError(resource + " already exists")
	}
	return models.NewInternalError(err)
}

// toggleError maps a failed toggle transaction. A unique violation means a
// concurrent toggle won the race, so the caller may retry.
func toggleError(err error, resource string, id interface{}) error {
	if isUniqueConstraintError(err) {
		return models.NewConflictError("Concurrent update, please retry")
	}
	if errors.Is(err, models.ErrSelfSubscription) || errors.Is(err, models.ErrSubscriptionTarget) {
		return models.NewValidationError(err.Error())
	}
	return wrapStoreError(err, resource, id)
}
