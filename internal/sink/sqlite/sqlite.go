// Package sqlite implements the expense sink on a local SQLite database.
// Useful when running without Google credentials; the month token becomes an
// indexed column instead of a worksheet.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite" // Pure Go SQLite driver
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/gsantin/spesebot/internal/errors"
	"github.com/gsantin/spesebot/internal/expense"
	"github.com/gsantin/spesebot/internal/sink"
)

// ExpenseRow is the persisted form of a confirmed expense.
type ExpenseRow struct {
	ID                string `gorm:"primaryKey"`
	Month             string `gorm:"index"`
	Name              string
	Day               int
	Price             string
	PrimaryCategory   string
	SecondaryCategory string
	CreatedAt         time.Time
}

type Store struct {
	db *gorm.DB
}

var _ sink.Sink = (*Store)(nil)

// New opens (or creates) the database at path and migrates the schema.
func New(path string) (*Store, error) {
	sqliteDB, err := sql.Open("sqlite", path+"?_journal=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSinkUnavailable.Code, "open sqlite")
	}

	db, err := gorm.Open(sqlite.Dialector{Conn: sqliteDB}, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSinkUnavailable.Code, "open gorm")
	}

	if err := db.AutoMigrate(&ExpenseRow{}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSinkUnavailable.Code, "migrate schema")
	}

	return &Store{db: db}, nil
}

func (s *Store) Append(ctx context.Context, month string, rec expense.Record) error {
	row := &ExpenseRow{
		ID:                uuid.NewString(),
		Month:             month,
		Name:              rec.Name,
		Day:               rec.Day,
		Price:             rec.Price.StringFixed(2),
		PrimaryCategory:   string(rec.Primary),
		SecondaryCategory: rec.Secondary,
		CreatedAt:         time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrSinkAppend.Code, fmt.Sprintf("insert expense for %s", month))
	}
	return nil
}

// EnsureWorksheet is a no-op: all months live in one table, partitioned by
// the Month column.
func (s *Store) EnsureWorksheet(_ context.Context, _ string) error {
	return nil
}

// ListMonth returns all rows stored for the month token, oldest first.
func (s *Store) ListMonth(ctx context.Context, month string) ([]ExpenseRow, error) {
	var rows []ExpenseRow
	err := s.db.WithContext(ctx).
		Where("month = ?", month).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSinkUnavailable.Code, "list expenses")
	}
	return rows, nil
}
