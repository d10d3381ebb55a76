package storage

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrUniqueViolation indica que um índice único recusou a escrita.
	ErrUniqueViolation = errors.New("violação de restrição única")
	// ErrCommitFailed indica que a confirmação da transação falhou e nada foi gravado.
	ErrCommitFailed = errors.New("falha ao confirmar transação")
)

// pqUniqueViolation é o SQLSTATE unique_violation do PostgreSQL.
const pqUniqueViolation = "23505"

// classify anexa ao erro do driver o sentinela correspondente, quando reconhecido.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrUniqueViolation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
