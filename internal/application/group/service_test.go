package group_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/apptest"
	app "github.com/AnderssonLeandro09/baloncesto-backend/internal/application/group"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/athlete"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/coach"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/group"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// MockRepository is a mock implementation of group.Repository.
type MockRepository struct {
	apptest.MockDAO[group.Group]
}

func (m *MockRepository) CreateWithMembers(ctx context.Context, fields shared.Fields, members []int64) (*group.Group, error) {
	args := m.Called(ctx, fields, members)
	return apptest.Found[group.Group](args.Get(0)), args.Error(1)
}

func (m *MockRepository) UpdateWithMembers(ctx context.Context, id int64, fields shared.Fields, members []int64) (*group.Group, bool, error) {
	args := m.Called(ctx, id, fields, members)
	return apptest.Found[group.Group](args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockRepository) ListByCoach(ctx context.Context, coachID int64) ([]*group.Group, error) {
	args := m.Called(ctx, coachID)
	return apptest.List[group.Group](args.Get(0)), args.Error(1)
}

// MockAthletes is a mock implementation of group.AthleteReader.
type MockAthletes struct {
	mock.Mock
}

func (m *MockAthletes) GetByIDs(ctx context.Context, ids []int64) ([]*athlete.Athlete, error) {
	args := m.Called(ctx, ids)
	return apptest.List[athlete.Athlete](args.Get(0)), args.Error(1)
}

func (m *MockAthletes) GetByFilter(ctx context.Context, criteria shared.Fields) ([]*athlete.Athlete, error) {
	args := m.Called(ctx, criteria)
	return apptest.List[athlete.Athlete](args.Get(0)), args.Error(1)
}

// MockCoaches is a mock implementation of group.CoachReader.
type MockCoaches struct {
	mock.Mock
}

func (m *MockCoaches) GetByID(ctx context.Context, id int64) (*coach.Coach, bool, error) {
	args := m.Called(ctx, id)
	return apptest.Found[coach.Coach](args.Get(0)), args.Bool(1), args.Error(2)
}

var now = time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

type fixture struct {
	repo     *MockRepository
	athletes *MockAthletes
	coaches  *MockCoaches
	svc      *app.Service
}

func newFixture() fixture {
	f := fixture{repo: new(MockRepository), athletes: new(MockAthletes), coaches: new(MockCoaches)}
	f.svc = app.NewService(f.repo, f.athletes, f.coaches, apptest.NewPermissiveAuditor(), func() time.Time { return now })
	return f
}

// born returns an athlete who turned age on 2026-01-01.
func born(id int64, age int) *athlete.Athlete {
	return &athlete.Athlete{ID: id, BirthDate: time.Date(2026-age, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: true}
}

func payload() map[string]any {
	return map[string]any{
		"name":     "Sub 14",
		"category": "Formativa",
		"min_age":  float64(10),
		"max_age":  float64(14),
		"coach_id": float64(1),
		"members":  []any{float64(5), float64(6), float64(5)},
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success - dedupes members", func(t *testing.T) {
		f := newFixture()
		f.coaches.On("GetByID", ctx, int64(1)).Return(&coach.Coach{ID: 1, IsActive: true}, true, nil)
		f.athletes.On("GetByIDs", ctx, []int64{5, 6}).Return([]*athlete.Athlete{born(5, 12), born(6, 14)}, nil)
		f.repo.On("CreateWithMembers", ctx, shared.Fields{
			"name": "Sub 14", "category": "Formativa", "min_age": 10, "max_age": 14, "coach_id": int64(1),
		}, []int64{5, 6}).Return(&group.Group{ID: 3, Members: []int64{5, 6}}, nil)

		result := f.svc.Create(ctx, payload())

		require.True(t, result.IsSuccess(), result.Errors())
		f.repo.AssertExpectations(t)
	})

	t.Run("error - min above max", func(t *testing.T) {
		f := newFixture()
		data := payload()
		data["min_age"] = float64(15)

		result := f.svc.Create(ctx, data)

		assert.Equal(t, shared.StatusValidationError, result.Status())
		assert.Equal(t, []string{"La edad mínima no puede ser mayor a la máxima"}, result.Errors())
	})

	t.Run("error - non integer age", func(t *testing.T) {
		f := newFixture()
		data := payload()
		data["max_age"] = "catorce"

		result := f.svc.Create(ctx, data)

		assert.Equal(t, []string{"El campo 'max_age' debe ser un número entero"}, result.Errors())
	})

	t.Run("error - inactive coach", func(t *testing.T) {
		f := newFixture()
		f.coaches.On("GetByID", ctx, int64(1)).Return(&coach.Coach{ID: 1, IsActive: false}, true, nil)

		result := f.svc.Create(ctx, payload())

		assert.Equal(t, []string{"El entrenador especificado está dado de baja"}, result.Errors())
	})

	t.Run("error - missing and out of range members", func(t *testing.T) {
		f := newFixture()
		f.coaches.On("GetByID", ctx, int64(1)).Return(&coach.Coach{ID: 1, IsActive: true}, true, nil)
		f.athletes.On("GetByIDs", ctx, []int64{5, 6}).Return([]*athlete.Athlete{born(5, 12)}, nil).Once()

		result := f.svc.Create(ctx, payload())
		assert.Equal(t, []string{"Los siguientes IDs de atletas no existen: [6]"}, result.Errors())

		f.athletes.On("GetByIDs", ctx, []int64{5, 6}).Return([]*athlete.Athlete{born(5, 9), born(6, 16)}, nil)
		result = f.svc.Create(ctx, payload())
		assert.Equal(t, []string{
			"El atleta con ID 5 (edad: 9) no cumple con el rango de edad del grupo (10-14)",
			"El atleta con ID 6 (edad: 16) no cumple con el rango de edad del grupo (10-14)",
		}, result.Errors())
		f.repo.AssertNotCalled(t, "CreateWithMembers", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("error - too many members", func(t *testing.T) {
		f := newFixture()
		f.coaches.On("GetByID", ctx, int64(1)).Return(&coach.Coach{ID: 1, IsActive: true}, true, nil)
		members := make([]any, 101)
		for i := range members {
			members[i] = float64(i + 1)
		}
		data := payload()
		data["members"] = members

		result := f.svc.Create(ctx, data)

		assert.Equal(t, []string{"No se pueden asignar más de 100 atletas a un grupo"}, result.Errors())
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	existing := &group.Group{ID: 3, MinAge: 10, MaxAge: 14, CoachID: 1, Members: []int64{5}}

	t.Run("narrowing the range re-checks members", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, int64(3)).Return(existing, true, nil)
		f.athletes.On("GetByIDs", ctx, []int64{5}).Return([]*athlete.Athlete{born(5, 14)}, nil)

		result := f.svc.Update(ctx, 3, map[string]any{"max_age": 13})

		assert.Equal(t, shared.StatusValidationError, result.Status())
	})

	t.Run("members key replaces the list", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, int64(3)).Return(existing, true, nil)
		f.repo.On("UpdateWithMembers", ctx, int64(3), shared.Fields{}, []int64{}).
			Return(&group.Group{ID: 3, Members: []int64{}}, true, nil)

		result := f.svc.Update(ctx, 3, map[string]any{"members": []any{}})

		require.True(t, result.IsSuccess(), result.Errors())
	})

	t.Run("name only leaves members untouched", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, int64(3)).Return(existing, true, nil)
		f.repo.On("UpdateWithMembers", ctx, int64(3), shared.Fields{"name": "Sub 15"}, []int64(nil)).
			Return(&group.Group{ID: 3, Name: "Sub 15", Members: []int64{5}}, true, nil)

		result := f.svc.Update(ctx, 3, map[string]any{"name": "Sub 15", "is_active": false})

		require.True(t, result.IsSuccess(), result.Errors())
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, int64(9)).Return(nil, false, nil)

		assert.Equal(t, shared.StatusNotFound, f.svc.Update(ctx, 9, map[string]any{"name": "x"}).Status())
	})
}

func TestService_ListByCoach(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.coaches.On("GetByID", ctx, int64(1)).Return(&coach.Coach{ID: 1}, true, nil)
	f.coaches.On("GetByID", ctx, int64(2)).Return(nil, false, nil)
	f.repo.On("ListByCoach", ctx, int64(1)).Return([]*group.Group{{ID: 3}}, nil)

	assert.True(t, f.svc.ListByCoach(ctx, 1).IsSuccess())
	assert.Equal(t, shared.StatusNotFound, f.svc.ListByCoach(ctx, 2).Status())
}

func TestService_EligibleAthletes(t *testing.T) {
	ctx := context.Background()
	active := []*athlete.Athlete{born(5, 12), born(6, 13), born(7, 18)}

	t.Run("by group excludes members", func(t *testing.T) {
		f := newFixture()
		id := int64(3)
		f.repo.On("GetByID", ctx, id).Return(&group.Group{ID: 3, MinAge: 10, MaxAge: 14, Members: []int64{5}}, true, nil)
		f.athletes.On("GetByFilter", ctx, shared.Fields{"is_active": true}).Return(active, nil)

		result := f.svc.EligibleAthletes(ctx, app.EligibilityQuery{GroupID: &id})

		require.True(t, result.IsSuccess())
		got := result.Data().([]*athlete.Athlete)
		require.Len(t, got, 1)
		assert.Equal(t, int64(6), got[0].ID)
	})

	t.Run("by explicit range", func(t *testing.T) {
		f := newFixture()
		minAge, maxAge := 12, 20
		f.athletes.On("GetByFilter", ctx, shared.Fields{"is_active": true}).Return(active, nil)

		result := f.svc.EligibleAthletes(ctx, app.EligibilityQuery{MinAge: &minAge, MaxAge: &maxAge})

		assert.Len(t, result.Data(), 3)
	})

	t.Run("requires a scope", func(t *testing.T) {
		f := newFixture()
		minAge := 12

		result := f.svc.EligibleAthletes(ctx, app.EligibilityQuery{MinAge: &minAge})

		assert.Equal(t, shared.StatusValidationError, result.Status())
	})
}
