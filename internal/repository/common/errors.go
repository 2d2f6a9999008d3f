package common

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые репозитории переводят в доменные.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation сообщает о нарушении уникального индекса.
// constraint пустой строкой означает любой индекс.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != pgUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsForeignKeyViolation сообщает о ссылке на несуществующую запись.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation
}
