package common

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestWhere_BuildsPositionalPlaceholders(t *testing.T) {
	var w Where
	w.Add("user_id = ?", "u1")
	w.AddRaw("is_public = TRUE")
	w.Add("rating >= ?", 4)
	limit := w.Arg(20)

	assert.Equal(t, " WHERE user_id = $1 AND is_public = TRUE AND rating >= $2", w.SQL())
	assert.Equal(t, "$3", limit)
	assert.Equal(t, []interface{}{"u1", 4, 20}, w.Args())
}

func TestWhere_Empty(t *testing.T) {
	var w Where
	assert.Equal(t, "", w.SQL())
	assert.Nil(t, w.Args())
}

type fakeResult struct{ rows int64 }

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

func TestExpectAffected(t *testing.T) {
	notFound := errors.New("missing")

	assert.NoError(t, ExpectAffected(fakeResult{rows: 1}, notFound))
	assert.ErrorIs(t, ExpectAffected(fakeResult{rows: 0}, notFound), notFound)
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "payments_booking_id_key"}

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "payments_booking_id_key"))
	assert.False(t, IsUniqueViolation(err, "other"))
	assert.False(t, IsUniqueViolation(errors.New("plain"), ""))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
}
