// Package main seeds a development database with a coach, a group and a
// handful of enrolled athletes.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/config"
	"github.com/AnderssonLeandro09/baloncesto-backend/pkg/logger"
)

type athleteSeed struct {
	firstName string
	lastName  string
	dni       string
	birthDate string
	sex       string
	enrollAs  string
}

var athleteSeeds = []athleteSeed{
	{"Mateo", "Jaramillo", "1105678901", "2012-03-14", "M", "FEDERADO"},
	{"Valentina", "Ordóñez", "1105678902", "2011-07-02", "F", "FEDERADO"},
	{"Samuel", "Castillo", "1105678903", "2013-11-21", "M", "NO_FEDERADO"},
	{"Camila", "Herrera", "1105678904", "2012-01-30", "F", "NO_FEDERADO"},
	{"Joaquín", "Paredes", "1105678905", "2010-09-08", "M", "INVITADO"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Setup(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.PrettyJSON)

	log.Info().Msg("Starting basketball seeder")

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database connection")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to ping database")
		return
	}

	coachID, err := seedCoach(ctx, db, cfg.Domain.InstitutionalEmailDomain)
	if err != nil {
		log.Error().Err(err).Msg("Failed to seed coach")
		return
	}

	inserted, skipped := 0, 0
	var members []int64
	for _, seed := range athleteSeeds {
		id, created, err := seedAthlete(ctx, db, seed)
		if err != nil {
			log.Error().Err(err).Str("dni", seed.dni).Msg("Failed to seed athlete")
			continue
		}
		members = append(members, id)
		if created {
			log.Info().Str("dni", seed.dni).Str("name", seed.firstName+" "+seed.lastName).Msg("Inserted athlete")
			inserted++
		} else {
			skipped++
		}
	}

	if err := seedGroup(ctx, db, coachID, members); err != nil {
		log.Error().Err(err).Msg("Failed to seed group")
	}

	fmt.Printf("\nSeeding completed!\n")
	fmt.Printf("   Inserted: %d\n", inserted)
	fmt.Printf("   Skipped:  %d\n", skipped)
	fmt.Printf("   Total:    %d\n", len(athleteSeeds))
}

func seedCoach(ctx context.Context, db *sql.DB, domain string) (int64, error) {
	if domain == "" {
		domain = "unl.edu.ec"
	}
	email := "entrenador.demo@" + domain

	var id int64
	err := db.QueryRowContext(ctx,
		`INSERT INTO coaches (first_name, last_name, email, dni, specialty, assigned_club)
		 VALUES ('Andrea', 'Guamán', $1, '1100000001', 'Formativas', 'Club UNL')
		 ON CONFLICT (dni) DO UPDATE SET dni = EXCLUDED.dni
		 RETURNING id`,
		email,
	).Scan(&id)
	return id, err
}

func seedAthlete(ctx context.Context, db *sql.DB, seed athleteSeed) (int64, bool, error) {
	var id int64
	err := db.QueryRowContext(ctx, `SELECT id FROM athletes WHERE dni = $1`, seed.dni).Scan(&id)
	if err == nil {
		log.Debug().Str("dni", seed.dni).Msg("Athlete already exists, skipping")
		return id, false, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO athletes (first_name, last_name, dni, birth_date, sex)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		seed.firstName, seed.lastName, seed.dni, seed.birthDate, seed.sex,
	).Scan(&id)
	if err != nil {
		return 0, false, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO enrollments (athlete_id, enrollment_date, type) VALUES ($1, CURRENT_DATE, $2)`,
		id, seed.enrollAs,
	); err != nil {
		return 0, false, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO audit_logs (id, table_name, record_id, action, performed_by)
		 VALUES (gen_random_uuid(), 'athletes', $1, 'CREATE', 'seeder')`,
		id,
	); err != nil {
		return 0, false, err
	}

	return id, true, tx.Commit()
}

func seedGroup(ctx context.Context, db *sql.DB, coachID int64, members []int64) error {
	var groupID int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM athlete_groups WHERE name = 'Sub-14 Demo' AND coach_id = $1`, coachID,
	).Scan(&groupID)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	if err := db.QueryRowContext(ctx,
		`INSERT INTO athlete_groups (name, min_age, max_age, category, coach_id)
		 VALUES ('Sub-14 Demo', 10, 16, 'Formativa', $1) RETURNING id`,
		coachID,
	).Scan(&groupID); err != nil {
		return err
	}

	for _, athleteID := range members {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO group_members (group_id, athlete_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			groupID, athleteID,
		); err != nil {
			return err
		}
	}
	log.Info().Int64("group_id", groupID).Int("members", len(members)).Msg("Inserted demo group")
	return nil
}
