package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/evn/shiftpass_backend/internal/models"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// DBTX - общее подмножество *sql.DB и *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store объединяет репозитории, работающие с одним соединением или транзакцией.
type Store struct {
	db *sql.DB

	Shifts      *ShiftRepository
	ShiftPasses *ShiftPassRepository
	Users       *UserRepository
	Locations   *LocationRepository
}

func NewStore(db *sql.DB) *Store {
	return newStore(db, db)
}

func newStore(db *sql.DB, conn DBTX) *Store {
	return &Store{
		db:          db,
		Shifts:      &ShiftRepository{db: conn},
		ShiftPasses: &ShiftPassRepository{db: conn},
		Users:       &UserRepository{db: conn},
		Locations:   &LocationRepository{db: conn},
	}
}

// WithinTx выполняет fn в одной транзакции: все записи фиксируются вместе
// или откатываются целиком при любой ошибке или панике.
func (s *Store) WithinTx(ctx context.Context, fn func(tx *Store) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("не удалось начать транзакцию: %w", err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(newStore(s.db, tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return classify(fmt.Errorf("ошибка фиксации транзакции: %w", err))
	}
	return nil
}

// classify помечает ошибки конкурентного доступа драйвера как ErrConflict,
// а sql.ErrNoRows - как ErrNotFound.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", models.ErrNotFound, err)
	}
	if isConflict(err) {
		return fmt.Errorf("%w: %w", models.ErrConflict, err)
	}
	return err
}

func isConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01":
			return true
		}
		return false
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// isUniqueViolation распознаёт нарушение уникального индекса в обоих драйверах.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// placeholders строит "$1, $2, ..." начиная с номера start.
func placeholders(start, n int) string {
	buf := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, fmt.Sprintf("$%d", start+i)...)
	}
	return string(buf)
}
