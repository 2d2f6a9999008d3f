package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UUIDArray отображает колонку UUID[] на срез uuid.UUID через pq.StringArray.
type UUIDArray []uuid.UUID

// Value реализует driver.Valuer.
func (a UUIDArray) Value() (driver.Value, error) {
	strs := make(pq.StringArray, len(a))
	for i, id := range a {
		strs[i] = id.String()
	}
	return strs.Value()
}

// Scan реализует sql.Scanner.
func (a *UUIDArray) Scan(src interface{}) error {
	var strs pq.StringArray
	if err := strs.Scan(src); err != nil {
		return fmt.Errorf("uuid array: %w", err)
	}

	out := make(UUIDArray, 0, len(strs))
	for _, s := range strs {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("uuid array: %w", err)
		}
		out = append(out, id)
	}
	*a = out
	return nil
}
