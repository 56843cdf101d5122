package measurement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/apptest"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/common"
	app "github.com/AnderssonLeandro09/baloncesto-backend/internal/application/measurement"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/athlete"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/enrollment"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/measurement"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// MockRepository is a mock implementation of measurement.Repository.
type MockRepository struct {
	apptest.MockDAO[measurement.Measurement]
}

func (m *MockRepository) ListByAthlete(ctx context.Context, athleteID int64, activeOnly bool) ([]*measurement.Measurement, error) {
	args := m.Called(ctx, athleteID, activeOnly)
	return apptest.List[measurement.Measurement](args.Get(0)), args.Error(1)
}

// MockAthletes is a mock implementation of measurement.AthleteReader.
type MockAthletes struct {
	mock.Mock
}

func (m *MockAthletes) GetByID(ctx context.Context, id int64) (*athlete.Athlete, bool, error) {
	args := m.Called(ctx, id)
	return apptest.Found[athlete.Athlete](args.Get(0)), args.Bool(1), args.Error(2)
}

// MockEnrollments is a mock implementation of measurement.EnrollmentReader.
type MockEnrollments struct {
	mock.Mock
}

func (m *MockEnrollments) GetByAthlete(ctx context.Context, athleteID int64) (*enrollment.Enrollment, bool, error) {
	args := m.Called(ctx, athleteID)
	return apptest.Found[enrollment.Enrollment](args.Get(0)), args.Bool(1), args.Error(2)
}

var now = time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

type fixture struct {
	repo        *MockRepository
	athletes    *MockAthletes
	enrollments *MockEnrollments
	publisher   *apptest.MockPublisher
	svc         *app.Service
}

func newFixture() fixture {
	f := fixture{
		repo:        new(MockRepository),
		athletes:    new(MockAthletes),
		enrollments: new(MockEnrollments),
		publisher:   new(apptest.MockPublisher),
	}
	f.svc = app.NewService(f.repo, f.athletes, f.enrollments, apptest.NewPermissiveAuditor(), f.publisher, func() time.Time { return now })
	return f
}

// eligible makes athlete id active and enrolled.
func (f fixture) eligible(ctx context.Context, id int64) {
	f.athletes.On("GetByID", ctx, id).Return(&athlete.Athlete{ID: id, IsActive: true}, true, nil)
	f.enrollments.On("GetByAthlete", ctx, id).Return(&enrollment.Enrollment{AthleteID: id, Enabled: true}, true, nil)
}

func payload() map[string]any {
	return map[string]any{
		"athlete_id":        float64(4),
		"weight":            float64(70.5),
		"height":            "1.80",
		"sitting_height":    0.9,
		"wingspan":          1.85,
		"registration_date": "2026-10-01",
		"notes":             "  control ",
	}
}

func TestService_Create(t *testing.T) {
	ctx := common.WithActor(context.Background(), common.Actor{Email: "coach@unl.edu.ec", Roles: []string{common.RoleCoach}})

	t.Run("success - derives indices and records the caller", func(t *testing.T) {
		f := newFixture()
		f.eligible(ctx, 4)
		stored := &measurement.Measurement{ID: 11, AthleteID: 4, IsActive: true}
		f.repo.On("Create", ctx, mock.MatchedBy(func(fields shared.Fields) bool {
			return fields["bmi"].(decimal.Decimal).Equal(decimal.RequireFromString("21.76")) &&
				fields["cormic_index"].(decimal.Decimal).Equal(decimal.NewFromInt(50)) &&
				fields["athlete_id"] == int64(4) &&
				fields["recorded_by"] == "coach@unl.edu.ec" &&
				fields["recorded_by_role"] == "ENTRENADOR" &&
				fields["notes"] == "control"
		})).Return(stored, nil)
		f.publisher.On("Publish", ctx, app.EventRecorded, stored).Return(nil)

		result := f.svc.Create(ctx, payload())

		require.True(t, result.IsSuccess(), result.Errors())
		assert.Equal(t, "Medición registrada exitosamente", result.Message())
		f.publisher.AssertExpectations(t)
	})

	t.Run("publish failure does not fail the operation", func(t *testing.T) {
		f := newFixture()
		f.eligible(ctx, 4)
		f.repo.On("Create", ctx, mock.Anything).Return(&measurement.Measurement{ID: 12}, nil)
		f.publisher.On("Publish", ctx, app.EventRecorded, mock.Anything).Return(errors.New("channel closed"))

		assert.True(t, f.svc.Create(ctx, payload()).IsSuccess())
	})

	t.Run("error - engine rejections", func(t *testing.T) {
		f := newFixture()
		f.eligible(ctx, 4)
		data := payload()
		data["sitting_height"] = 1.9
		data["weight"] = 250

		result := f.svc.Create(ctx, data)

		assert.Equal(t, shared.StatusValidationError, result.Status())
		assert.Equal(t, []string{
			"El peso es demasiado alto (máximo 200 kg)",
			"La altura sentado es demasiado alta (máximo 1.5 m)",
			"La altura sentado no puede ser mayor que la estatura",
		}, result.Errors())
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("error - athlete missing", func(t *testing.T) {
		f := newFixture()
		f.athletes.On("GetByID", ctx, int64(4)).Return(nil, false, nil)

		result := f.svc.Create(ctx, payload())

		assert.Equal(t, shared.StatusNotFound, result.Status())
	})

	t.Run("error - athlete inactive", func(t *testing.T) {
		f := newFixture()
		f.athletes.On("GetByID", ctx, int64(4)).Return(&athlete.Athlete{ID: 4}, true, nil)

		result := f.svc.Create(ctx, payload())

		assert.Equal(t, []string{"El atleta está inactivo"}, result.Errors())
	})

	t.Run("error - enrollment disabled", func(t *testing.T) {
		f := newFixture()
		f.athletes.On("GetByID", ctx, int64(4)).Return(&athlete.Athlete{ID: 4, IsActive: true}, true, nil)
		f.enrollments.On("GetByAthlete", ctx, int64(4)).Return(&enrollment.Enrollment{Enabled: false}, true, nil)

		result := f.svc.Create(ctx, payload())

		assert.Equal(t, []string{"El atleta no tiene una inscripción habilitada"}, result.Errors())
	})

	t.Run("error - missing athlete id", func(t *testing.T) {
		f := newFixture()
		data := payload()
		delete(data, "athlete_id")

		result := f.svc.Create(ctx, data)

		assert.Equal(t, []string{"El campo 'athlete_id' es requerido"}, result.Errors())
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	existing := &measurement.Measurement{
		ID: 11, AthleteID: 4,
		RegistrationDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Weight:           decimal.RequireFromString("70.5"),
		Height:           decimal.RequireFromString("1.8"),
		SittingHeight:    decimal.RequireFromString("0.9"),
		Wingspan:         decimal.RequireFromString("1.85"),
	}

	t.Run("merges and recomputes", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, int64(11)).Return(existing, true, nil)
		updated := &measurement.Measurement{ID: 11}
		f.repo.On("Update", ctx, int64(11), mock.MatchedBy(func(fields shared.Fields) bool {
			return fields["weight"].(decimal.Decimal).Equal(decimal.NewFromInt(81)) &&
				fields["bmi"].(decimal.Decimal).Equal(decimal.RequireFromString("25")) &&
				fields["height"].(decimal.Decimal).Equal(decimal.RequireFromString("1.8"))
		})).Return(updated, true, nil)
		f.publisher.On("Publish", ctx, app.EventUpdated, updated).Return(nil)

		result := f.svc.Update(ctx, 11, map[string]any{"weight": 81, "athlete_id": 9})

		require.True(t, result.IsSuccess(), result.Errors())
		f.publisher.AssertExpectations(t)
	})

	t.Run("merged record must stay consistent", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, int64(11)).Return(existing, true, nil)

		result := f.svc.Update(ctx, 11, map[string]any{"height": 1.2})

		assert.Equal(t, shared.StatusValidationError, result.Status())
		assert.Contains(t, result.Errors(), "La proporción envergadura/estatura (1.54) está fuera del rango permitido (0.9 - 1.4)")
	})

	t.Run("stored date outside the window is kept", func(t *testing.T) {
		f := newFixture()
		old := *existing
		old.ID = 12
		old.RegistrationDate = time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
		f.repo.On("GetByID", ctx, int64(12)).Return(&old, true, nil)
		updated := &measurement.Measurement{ID: 12}
		f.repo.On("Update", ctx, int64(12), mock.MatchedBy(func(fields shared.Fields) bool {
			return fields["registration_date"].(time.Time).Equal(old.RegistrationDate) &&
				fields["notes"] == "typo fix"
		})).Return(updated, true, nil)
		f.publisher.On("Publish", ctx, app.EventUpdated, updated).Return(nil)

		result := f.svc.Update(ctx, 12, map[string]any{"notes": " typo fix "})

		require.True(t, result.IsSuccess(), result.Errors())
		f.repo.AssertExpectations(t)
	})

	t.Run("changed date is still checked", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, int64(11)).Return(existing, true, nil)

		result := f.svc.Update(ctx, 11, map[string]any{"registration_date": "2016-01-01"})

		assert.Equal(t, shared.StatusValidationError, result.Status())
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nothing to update", func(t *testing.T) {
		f := newFixture()

		assert.Equal(t, shared.StatusValidationError, f.svc.Update(ctx, 11, map[string]any{"bmi": 3}).Status())
	})
}

func TestService_History(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.athletes.On("GetByID", ctx, int64(4)).Return(&athlete.Athlete{ID: 4}, true, nil)
	f.athletes.On("GetByID", ctx, int64(5)).Return(nil, false, nil)
	f.repo.On("ListByAthlete", ctx, int64(4), true).Return([]*measurement.Measurement{
		{ID: 2, RegistrationDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), BMI: decimal.NewFromInt(22)},
		{ID: 1, RegistrationDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), BMI: decimal.NewFromInt(21)},
	}, nil)

	chart := f.svc.ChartData(ctx, 4)
	require.True(t, chart.IsSuccess())
	points := chart.Data().([]measurement.ChartPoint)
	require.Len(t, points, 2)
	assert.Equal(t, "2026-08-01", points[0].Date)

	assert.Len(t, f.svc.ByAthlete(ctx, 4).Data(), 2)
	assert.Equal(t, shared.StatusNotFound, f.svc.ChartData(ctx, 5).Status())
}

func TestService_Deactivate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.repo.On("GetByID", ctx, int64(11)).Return(&measurement.Measurement{ID: 11, IsActive: false}, true, nil)

	result := f.svc.Deactivate(ctx, 11)

	assert.Equal(t, shared.StatusConflict, result.Status())
	assert.Equal(t, "La medición ya está desactivada", result.Message())
}
