package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/athlete"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

var athleteMapping = Mapping[athlete.Athlete]{
	Table:    "athletes",
	IDColumn: "id",
	Columns: []string{
		"id", athlete.FieldFirstName, athlete.FieldLastName, athlete.FieldDNI, athlete.FieldBirthDate,
		athlete.FieldSex, athlete.FieldEmail, athlete.FieldPhone, athlete.FieldBloodType,
		athlete.FieldGuardianName, athlete.FieldGuardianPhone, athlete.FieldIsActive, "created_at",
	},
	Writable: append([]string{athlete.FieldDNI, athlete.FieldIsActive}, athlete.UpdatableFields...),
	OrderBy:  "last_name, first_name, id",
	Scan:     scanAthlete,
}

func scanAthlete(row rowScanner) (*athlete.Athlete, error) {
	var (
		a                                     athlete.Athlete
		sex                                   string
		email, phone, blood, guardian, gPhone sql.NullString
	)
	if err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.DNI, &a.BirthDate,
		&sex, &email, &phone, &blood, &guardian, &gPhone, &a.IsActive, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.Sex = athlete.Sex(sex)
	a.Email = email.String
	a.Phone = phone.String
	a.BloodType = blood.String
	a.GuardianName = guardian.String
	a.GuardianPhone = gPhone.String
	a.Age = a.AgeOn(time.Now())
	return &a, nil
}

// AthleteDAO implements athlete.Repository.
type AthleteDAO struct {
	*GenericDAO[athlete.Athlete]
}

// NewAthleteDAO creates a new AthleteDAO.
func NewAthleteDAO(db *DB) *AthleteDAO {
	return &AthleteDAO{GenericDAO: NewGenericDAO(db, athleteMapping)}
}

// Verify interface implementation at compile time.
var _ athlete.Repository = (*AthleteDAO)(nil)

// FindByDNI looks an athlete up by national id.
func (d *AthleteDAO) FindByDNI(ctx context.Context, dni string) (*athlete.Athlete, bool, error) {
	return d.findOne(ctx, shared.Fields{athlete.FieldDNI: dni})
}

// GetByIDs returns the athletes whose ids are listed.
func (d *AthleteDAO) GetByIDs(ctx context.Context, ids []int64) ([]*athlete.Athlete, error) {
	if len(ids) == 0 {
		return []*athlete.Athlete{}, nil
	}
	items, err := d.selectWhere(ctx, "id = ANY($1::bigint[])", "id", pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get athletes by ids: %w", err)
	}
	return items, nil
}
