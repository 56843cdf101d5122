package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/group"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

var groupMapping = Mapping[group.Group]{
	Table:    "athlete_groups",
	IDColumn: "id",
	Columns: []string{
		"id", group.FieldName, group.FieldMinAge, group.FieldMaxAge,
		group.FieldCategory, group.FieldCoachID, group.FieldIsActive, "created_at",
	},
	Writable: []string{
		group.FieldName, group.FieldMinAge, group.FieldMaxAge,
		group.FieldCategory, group.FieldCoachID, group.FieldIsActive,
	},
	OrderBy: "name, id",
	Scan:    scanGroup,
}

func scanGroup(row rowScanner) (*group.Group, error) {
	var g group.Group
	if err := row.Scan(&g.ID, &g.Name, &g.MinAge, &g.MaxAge, &g.Category, &g.CoachID, &g.IsActive, &g.CreatedAt); err != nil {
		return nil, err
	}
	g.Members = []int64{}
	return &g, nil
}

// GroupDAO implements group.Repository. Members live in group_members and
// are attached to every group it returns.
type GroupDAO struct {
	*GenericDAO[group.Group]
	db *DB
}

// NewGroupDAO creates a new GroupDAO.
func NewGroupDAO(db *DB) *GroupDAO {
	return &GroupDAO{GenericDAO: NewGenericDAO(db, groupMapping), db: db}
}

// Verify interface implementation at compile time.
var _ group.Repository = (*GroupDAO)(nil)

// GetByID retrieves a group with its members.
func (d *GroupDAO) GetByID(ctx context.Context, id int64) (*group.Group, bool, error) {
	g, found, err := d.GenericDAO.GetByID(ctx, id)
	if err != nil || !found {
		return nil, found, err
	}
	if err := d.attachMembers(ctx, d.db, []*group.Group{g}); err != nil {
		return nil, false, err
	}
	return g, true, nil
}

// GetAll returns every group with its members.
func (d *GroupDAO) GetAll(ctx context.Context) ([]*group.Group, error) {
	return d.withMembers(ctx)(d.GenericDAO.GetAll(ctx))
}

// GetByFilter returns the matching groups with their members.
func (d *GroupDAO) GetByFilter(ctx context.Context, criteria shared.Fields) ([]*group.Group, error) {
	return d.withMembers(ctx)(d.GenericDAO.GetByFilter(ctx, criteria))
}

// Search returns the matching groups with their members.
func (d *GroupDAO) Search(ctx context.Context, fields []string, term string) ([]*group.Group, error) {
	return d.withMembers(ctx)(d.GenericDAO.Search(ctx, fields, term))
}

// ListByCoach returns the active groups of a coach.
func (d *GroupDAO) ListByCoach(ctx context.Context, coachID int64) ([]*group.Group, error) {
	return d.GetByFilter(ctx, shared.Fields{group.FieldCoachID: coachID, group.FieldIsActive: true})
}

// Create inserts a group without members.
func (d *GroupDAO) Create(ctx context.Context, fields shared.Fields) (*group.Group, error) {
	return d.CreateWithMembers(ctx, fields, nil)
}

// Update applies fields without touching members.
func (d *GroupDAO) Update(ctx context.Context, id int64, fields shared.Fields) (*group.Group, bool, error) {
	return d.UpdateWithMembers(ctx, id, fields, nil)
}

// CreateWithMembers inserts the group and its members atomically.
func (d *GroupDAO) CreateWithMembers(ctx context.Context, fields shared.Fields, members []int64) (*group.Group, error) {
	var created *group.Group
	err := d.db.Transaction(ctx, func(tx *sql.Tx) error {
		g, err := d.WithTx(tx).Create(ctx, fields)
		if err != nil {
			return err
		}
		if err := replaceMembers(ctx, tx, g.ID, members); err != nil {
			return err
		}
		created = g
		return d.attachMembers(ctx, tx, []*group.Group{g})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateWithMembers applies fields and, when members is non-nil, replaces the
// member list in the same transaction.
func (d *GroupDAO) UpdateWithMembers(ctx context.Context, id int64, fields shared.Fields, members []int64) (*group.Group, bool, error) {
	var (
		updated *group.Group
		found   bool
	)
	err := d.db.Transaction(ctx, func(tx *sql.Tx) error {
		dao := d.WithTx(tx)
		var err error
		if len(fields) > 0 {
			updated, found, err = dao.Update(ctx, id, fields)
		} else {
			updated, found, err = dao.GetByID(ctx, id)
		}
		if err != nil || !found {
			return err
		}
		if members != nil {
			if err := replaceMembers(ctx, tx, id, members); err != nil {
				return err
			}
		}
		return d.attachMembers(ctx, tx, []*group.Group{updated})
	})
	if err != nil {
		return nil, false, err
	}
	return updated, found, nil
}

func (d *GroupDAO) withMembers(ctx context.Context) func([]*group.Group, error) ([]*group.Group, error) {
	return func(groups []*group.Group, err error) ([]*group.Group, error) {
		if err != nil {
			return nil, err
		}
		if err := d.attachMembers(ctx, d.db, groups); err != nil {
			return nil, err
		}
		return groups, nil
	}
}

func (d *GroupDAO) attachMembers(ctx context.Context, q querier, groups []*group.Group) error {
	if len(groups) == 0 {
		return nil
	}
	byID := make(map[int64]*group.Group, len(groups))
	ids := make([]int64, 0, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
		ids = append(ids, g.ID)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT group_id, athlete_id FROM group_members WHERE group_id = ANY($1::bigint[]) ORDER BY group_id, athlete_id`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load group members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var groupID, athleteID int64
		if err := rows.Scan(&groupID, &athleteID); err != nil {
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		if g, ok := byID[groupID]; ok {
			g.Members = append(g.Members, athleteID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating group members: %w", err)
	}
	return nil
}

func replaceMembers(ctx context.Context, tx *sql.Tx, groupID int64, members []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	if len(members) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO group_members (group_id, athlete_id)
		 SELECT $1::bigint, athlete_id FROM (SELECT DISTINCT unnest($2::bigint[]) AS athlete_id) AS m`,
		groupID, pq.Array(members))
	if err != nil {
		return classify("failed to insert group members", err)
	}
	return nil
}
