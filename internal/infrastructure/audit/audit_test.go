package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/audit"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "system", audit.GetPerformer(ctx))
	assert.Empty(t, audit.GetRequestID(ctx))

	ctx = audit.WithRequestContext(ctx, "req-1", "10.0.0.1", "curl/8")
	ctx = audit.WithPerformer(ctx, "coach@unl.edu.ec")

	assert.Equal(t, "req-1", audit.GetRequestID(ctx))
	assert.Equal(t, "10.0.0.1", audit.GetIPAddress(ctx))
	assert.Equal(t, "curl/8", audit.GetUserAgent(ctx))
	assert.Equal(t, "coach@unl.edu.ec", audit.GetPerformer(ctx))
}

func TestToJSON(t *testing.T) {
	type record struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	assert.Nil(t, audit.ToJSON(nil))
	assert.Nil(t, audit.ToJSON([]int{1, 2}), "non-objects are not recorded")
	assert.Equal(t, map[string]any{"id": float64(3), "name": "Juan"}, audit.ToJSON(record{ID: 3, Name: "Juan"}))
}

func TestComputeChanges(t *testing.T) {
	oldData := map[string]any{"name": "Sub 14", "min_age": float64(10), "coach_id": float64(1)}
	newData := map[string]any{"name": "Sub 15", "min_age": float64(10), "coach_id": float64(1), "category": "Formativa"}

	changes := audit.ComputeChanges(oldData, newData)

	assert.Len(t, changes, 2)
	assert.Equal(t, map[string]any{"old": "Sub 14", "new": "Sub 15"}, changes["name"])
	assert.Equal(t, map[string]any{"old": nil, "new": "Formativa"}, changes["category"])
	assert.Nil(t, audit.ComputeChanges(nil, newData))
}

func TestStatusAction(t *testing.T) {
	assert.Equal(t, audit.ActionReactivate, audit.StatusAction(true))
	assert.Equal(t, audit.ActionDeactivate, audit.StatusAction(false))
}
