package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// querier is satisfied by *sql.DB, *sql.Tx and *DB.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Mapping describes how an entity is stored.
type Mapping[T any] struct {
	// Table is the table name.
	Table string
	// IDColumn is the surrogate key column.
	IDColumn string
	// Columns are selected in this order and handed to Scan.
	Columns []string
	// Writable are the columns accepted by Create and Update.
	Writable []string
	// OrderBy is the natural order of list queries. Defaults to IDColumn.
	OrderBy string
	// Scan builds an entity from a row selected with Columns.
	Scan func(row rowScanner) (*T, error)
}

func (m Mapping[T]) orderBy() string {
	if m.OrderBy != "" {
		return m.OrderBy
	}
	return m.IDColumn
}

func (m Mapping[T]) selectList() string {
	return strings.Join(m.Columns, ", ")
}

func (m Mapping[T]) hasColumn(name string) bool {
	return slices.Contains(m.Columns, name)
}

func (m Mapping[T]) isWritable(name string) bool {
	return slices.Contains(m.Writable, name)
}

// GenericDAO implements shared.DAO for any mapped entity.
type GenericDAO[T any] struct {
	q querier
	m Mapping[T]
}

// NewGenericDAO creates a DAO over the given connection.
func NewGenericDAO[T any](db *DB, m Mapping[T]) *GenericDAO[T] {
	return &GenericDAO[T]{q: db, m: m}
}

// WithTx returns a copy of the DAO bound to a transaction.
func (d *GenericDAO[T]) WithTx(tx *sql.Tx) *GenericDAO[T] {
	return &GenericDAO[T]{q: tx, m: d.m}
}

var _ shared.DAO[struct{}] = (*GenericDAO[struct{}])(nil)

// GetByID retrieves an entity by id. A missing row is not an error.
func (d *GenericDAO[T]) GetByID(ctx context.Context, id int64) (*T, bool, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", d.m.selectList(), d.m.Table, d.m.IDColumn)

	entity, err := d.m.Scan(d.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s %d: %w", d.m.Table, id, err)
	}
	return entity, true, nil
}

// Create inserts a row and returns it as stored.
func (d *GenericDAO[T]) Create(ctx context.Context, fields shared.Fields) (*T, error) {
	query, args, err := d.m.insertQuery(fields)
	if err != nil {
		return nil, err
	}

	entity, err := d.m.Scan(d.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify(fmt.Sprintf("failed to create %s", d.m.Table), err)
	}
	return entity, nil
}

// Update applies exactly the given fields to the row.
func (d *GenericDAO[T]) Update(ctx context.Context, id int64, fields shared.Fields) (*T, bool, error) {
	query, args, err := d.m.updateQuery(id, fields)
	if err != nil {
		return nil, false, err
	}

	entity, err := d.m.Scan(d.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify(fmt.Sprintf("failed to update %s %d", d.m.Table, id), err)
	}
	return entity, true, nil
}

// SoftDelete clears flagField on a row where it is currently set.
func (d *GenericDAO[T]) SoftDelete(ctx context.Context, id int64, flagField string) (bool, error) {
	return d.setFlag(ctx, id, flagField, false)
}

// Restore sets flagField on a row where it is currently cleared.
func (d *GenericDAO[T]) Restore(ctx context.Context, id int64, flagField string) (bool, error) {
	return d.setFlag(ctx, id, flagField, true)
}

func (d *GenericDAO[T]) setFlag(ctx context.Context, id int64, flagField string, value bool) (bool, error) {
	if !d.m.hasColumn(flagField) {
		return false, fmt.Errorf("%w: %s.%s", shared.ErrUnknownColumn, d.m.Table, flagField)
	}

	query := fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1 AND %s IS %s",
		d.m.Table, flagField, d.m.IDColumn, flagField, strings.ToUpper(fmt.Sprint(!value)))

	result, err := d.q.ExecContext(ctx, query, id, value)
	if err != nil {
		return false, fmt.Errorf("failed to set %s.%s on %d: %w", d.m.Table, flagField, id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// GetAll returns every row in natural order.
func (d *GenericDAO[T]) GetAll(ctx context.Context) ([]*T, error) {
	return d.selectWhere(ctx, "", "")
}

// GetByFilter returns rows matching every criterion. A nil value matches NULL.
func (d *GenericDAO[T]) GetByFilter(ctx context.Context, criteria shared.Fields) ([]*T, error) {
	where, args, err := d.m.filterClause(criteria)
	if err != nil {
		return nil, err
	}
	return d.selectWhere(ctx, where, "", args...)
}

// Search returns rows where term is a case-insensitive substring of any field.
func (d *GenericDAO[T]) Search(ctx context.Context, fields []string, term string) ([]*T, error) {
	where, args, err := d.m.searchClause(fields, term)
	if err != nil {
		return nil, err
	}
	return d.selectWhere(ctx, where, "", args...)
}

// selectWhere runs a SELECT with an optional WHERE clause and ordering.
func (d *GenericDAO[T]) selectWhere(ctx context.Context, where, orderBy string, args ...any) ([]*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", d.m.selectList(), d.m.Table)
	if where != "" {
		query += " WHERE " + where
	}
	if orderBy == "" {
		orderBy = d.m.orderBy()
	}
	query += " ORDER BY " + orderBy

	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", d.m.Table, err)
	}
	defer func() { _ = rows.Close() }()

	items := []*T{}
	for rows.Next() {
		entity, err := d.m.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", d.m.Table, err)
		}
		items = append(items, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", d.m.Table, err)
	}
	return items, nil
}

// findOne returns the first row matching criteria.
func (d *GenericDAO[T]) findOne(ctx context.Context, criteria shared.Fields) (*T, bool, error) {
	items, err := d.GetByFilter(ctx, criteria)
	if err != nil || len(items) == 0 {
		return nil, false, err
	}
	return items[0], true, nil
}

// =============================================================================
// Query building
// =============================================================================

func (m Mapping[T]) insertQuery(fields shared.Fields) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, shared.ErrNoFields
	}
	columns, args, err := m.writableColumns(fields)
	if err != nil {
		return "", nil, err
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		m.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), m.selectList())
	return query, args, nil
}

func (m Mapping[T]) updateQuery(id int64, fields shared.Fields) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, shared.ErrNoFields
	}
	columns, args, err := m.writableColumns(fields)
	if err != nil {
		return "", nil, err
	}

	sets := make([]string, len(columns))
	for i, col := range columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		m.Table, strings.Join(sets, ", "), m.IDColumn, len(args), m.selectList())
	return query, args, nil
}

// writableColumns returns the field names in a stable order with their values.
func (m Mapping[T]) writableColumns(fields shared.Fields) ([]string, []any, error) {
	columns := make([]string, 0, len(fields))
	for col := range fields {
		if !m.isWritable(col) {
			return nil, nil, fmt.Errorf("%w: %s.%s", shared.ErrUnknownColumn, m.Table, col)
		}
		columns = append(columns, col)
	}
	slices.Sort(columns)

	args := make([]any, len(columns))
	for i, col := range columns {
		args[i] = fields[col]
	}
	return columns, args, nil
}

func (m Mapping[T]) filterClause(criteria shared.Fields) (string, []any, error) {
	columns := make([]string, 0, len(criteria))
	for col := range criteria {
		if !m.hasColumn(col) {
			return "", nil, fmt.Errorf("%w: %s.%s", shared.ErrUnknownColumn, m.Table, col)
		}
		columns = append(columns, col)
	}
	slices.Sort(columns)

	conds := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		if criteria[col] == nil {
			conds = append(conds, col+" IS NULL")
			continue
		}
		args = append(args, criteria[col])
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	return strings.Join(conds, " AND "), args, nil
}

func (m Mapping[T]) searchClause(fields []string, term string) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, shared.ErrNoFields
	}
	conds := make([]string, len(fields))
	for i, col := range fields {
		if !m.hasColumn(col) {
			return "", nil, fmt.Errorf("%w: %s.%s", shared.ErrUnknownColumn, m.Table, col)
		}
		conds[i] = fmt.Sprintf(`CAST(%s AS TEXT) ILIKE $1 ESCAPE '\'`, col)
	}
	return "(" + strings.Join(conds, " OR ") + ")", []any{"%" + escapeLike(term) + "%"}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
