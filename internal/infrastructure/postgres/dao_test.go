package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

type widget struct {
	ID   int64
	Name string
}

var widgetMapping = Mapping[widget]{
	Table:    "widgets",
	IDColumn: "id",
	Columns:  []string{"id", "name", "code", "is_active"},
	Writable: []string{"name", "code", "is_active"},
	Scan: func(row rowScanner) (*widget, error) {
		var w widget
		return &w, row.Scan(&w.ID, &w.Name)
	},
}

func TestInsertQuery(t *testing.T) {
	query, args, err := widgetMapping.insertQuery(shared.Fields{"name": "a", "code": "X1"})
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO widgets (code, name) VALUES ($1, $2) RETURNING id, name, code, is_active", query)
	assert.Equal(t, []any{"X1", "a"}, args)
}

func TestInsertQuery_Rejects(t *testing.T) {
	_, _, err := widgetMapping.insertQuery(shared.Fields{})
	assert.ErrorIs(t, err, shared.ErrNoFields)

	_, _, err = widgetMapping.insertQuery(shared.Fields{"id": 5})
	assert.ErrorIs(t, err, shared.ErrUnknownColumn)

	_, _, err = widgetMapping.insertQuery(shared.Fields{"name; DROP TABLE widgets": "x"})
	assert.ErrorIs(t, err, shared.ErrUnknownColumn)
}

func TestUpdateQuery(t *testing.T) {
	query, args, err := widgetMapping.updateQuery(7, shared.Fields{"name": "b", "is_active": false})
	require.NoError(t, err)

	assert.Equal(t, "UPDATE widgets SET is_active = $1, name = $2 WHERE id = $3 RETURNING id, name, code, is_active", query)
	assert.Equal(t, []any{false, "b", int64(7)}, args)

	_, _, err = widgetMapping.updateQuery(7, nil)
	assert.ErrorIs(t, err, shared.ErrNoFields)
}

func TestFilterClause(t *testing.T) {
	where, args, err := widgetMapping.filterClause(shared.Fields{"name": "a", "code": nil, "is_active": true})
	require.NoError(t, err)

	assert.Equal(t, "code IS NULL AND is_active = $1 AND name = $2", where)
	assert.Equal(t, []any{true, "a"}, args)

	where, args, err = widgetMapping.filterClause(shared.Fields{})
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)

	_, _, err = widgetMapping.filterClause(shared.Fields{"missing": 1})
	assert.ErrorIs(t, err, shared.ErrUnknownColumn)
}

func TestSearchClause(t *testing.T) {
	where, args, err := widgetMapping.searchClause([]string{"name", "code"}, "50%_a")
	require.NoError(t, err)

	assert.Equal(t, `(CAST(name AS TEXT) ILIKE $1 ESCAPE '\' OR CAST(code AS TEXT) ILIKE $1 ESCAPE '\')`, where)
	assert.Equal(t, []any{`%50\%\_a%`}, args)

	_, _, err = widgetMapping.searchClause(nil, "x")
	assert.ErrorIs(t, err, shared.ErrNoFields)

	_, _, err = widgetMapping.searchClause([]string{"secret"}, "x")
	assert.ErrorIs(t, err, shared.ErrUnknownColumn)
}

func TestEscapeLike(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"", ""},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\dir`, `c:\\dir`},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, escapeLike(tc.input))
		})
	}
}

func TestMappingOrderBy(t *testing.T) {
	assert.Equal(t, "id", widgetMapping.orderBy())

	m := widgetMapping
	m.OrderBy = "name, id"
	assert.Equal(t, "name, id", m.orderBy())
}

func TestClassify(t *testing.T) {
	t.Run("pgx unique violation", func(t *testing.T) {
		err := classify("failed to create athletes", &pgconn.PgError{Code: "23505", ConstraintName: "athletes_dni_key"})

		constraint, ok := shared.DuplicateConstraint(err)
		assert.True(t, ok)
		assert.Equal(t, "athletes_dni_key", constraint)
		assert.ErrorIs(t, err, shared.ErrDuplicate)
	})

	t.Run("lib/pq unique violation", func(t *testing.T) {
		wrapped := fmt.Errorf("exec: %w", &pq.Error{Code: "23505", Constraint: "coaches_email_key"})
		err := classify("failed to create coaches", wrapped)

		constraint, ok := shared.DuplicateConstraint(err)
		assert.True(t, ok)
		assert.Equal(t, "coaches_email_key", constraint)
	})

	t.Run("other error", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := classify("failed to create coaches", cause)

		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, shared.ErrDuplicate)
		assert.Contains(t, err.Error(), "failed to create coaches")
	})

	t.Run("foreign key violation is not a duplicate", func(t *testing.T) {
		_, ok := uniqueViolation(&pgconn.PgError{Code: "23503"})
		assert.False(t, ok)
	})
}
