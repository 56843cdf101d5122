package httpdelivery

import (
	"context"
	"io"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/group"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/measurement"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/audit"
)

// crudService is the part every entity service shares.
type crudService interface {
	Create(ctx context.Context, data map[string]any) *shared.Result
	Get(ctx context.Context, id int64) *shared.Result
	List(ctx context.Context, activeOnly bool) *shared.Result
	Update(ctx context.Context, id int64, changes map[string]any) *shared.Result
}

// AthleteService is implemented by athlete.Service.
type AthleteService interface {
	crudService
	Search(ctx context.Context, term string) *shared.Result
	Deactivate(ctx context.Context, id int64) *shared.Result
	Reactivate(ctx context.Context, id int64) *shared.Result
}

// CoachService is implemented by coach.Service.
type CoachService interface {
	crudService
	Deactivate(ctx context.Context, id int64) *shared.Result
	Reactivate(ctx context.Context, id int64) *shared.Result
	UploadPhoto(ctx context.Context, id int64, r io.Reader, size int64, contentType string) *shared.Result
}

// GroupService is implemented by group.Service.
type GroupService interface {
	crudService
	ListByCoach(ctx context.Context, coachID int64) *shared.Result
	EligibleAthletes(ctx context.Context, q group.EligibilityQuery) *shared.Result
	Deactivate(ctx context.Context, id int64) *shared.Result
	Reactivate(ctx context.Context, id int64) *shared.Result
}

// EnrollmentService is implemented by enrollment.Service.
type EnrollmentService interface {
	crudService
	GetByAthlete(ctx context.Context, athleteID int64) *shared.Result
	Disable(ctx context.Context, id int64) *shared.Result
	Enable(ctx context.Context, id int64) *shared.Result
}

// MeasurementService is implemented by measurement.Service.
type MeasurementService interface {
	crudService
	ByAthlete(ctx context.Context, athleteID int64) *shared.Result
	ChartData(ctx context.Context, athleteID int64) *shared.Result
	Deactivate(ctx context.Context, id int64) *shared.Result
	Reactivate(ctx context.Context, id int64) *shared.Result
	Export(ctx context.Context, query measurement.ExportQuery) *shared.Result
	Import(ctx context.Context, cmd measurement.ImportCommand) *shared.Result
	Template() *shared.Result
}

// PhysicalTestService is implemented by physicaltest.Service.
type PhysicalTestService interface {
	crudService
	ByAthlete(ctx context.Context, athleteID int64) *shared.Result
	Deactivate(ctx context.Context, id int64) *shared.Result
	Reactivate(ctx context.Context, id int64) *shared.Result
}

// AuditReader reads the audit trail.
type AuditReader interface {
	GetByRecordID(ctx context.Context, tableName string, recordID int64) ([]*audit.LogEntry, error)
	GetByPerformer(ctx context.Context, performedBy string, limit int) ([]*audit.LogEntry, error)
}

// Services groups the application services served over HTTP.
type Services struct {
	Athletes      AthleteService
	Coaches       CoachService
	Groups        GroupService
	Enrollments   EnrollmentService
	Measurements  MeasurementService
	PhysicalTests PhysicalTestService
	Audit         AuditReader
}
