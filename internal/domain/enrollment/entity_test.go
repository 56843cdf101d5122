package enrollment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/enrollment"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

var now = time.Date(2026, time.October, 18, 20, 0, 0, 0, time.UTC)

func TestNewType(t *testing.T) {
	got, err := enrollment.NewType(" no_federado ")
	require.NoError(t, err)
	assert.Equal(t, enrollment.TypeNonFederated, got)

	_, err = enrollment.NewType("SOCIO")
	assert.ErrorIs(t, err, enrollment.ErrInvalidType)
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name        string
		fields      shared.Fields
		defaultDate bool
		wantDate    string
		wantErr     string
	}{
		{"defaults to today", shared.Fields{"type": "INVITADO"}, true, "2026-10-18", ""},
		{"explicit date", shared.Fields{"type": "FEDERADO", "enrollment_date": "2026-02-01"}, true, "2026-02-01", ""},
		{"future date", shared.Fields{"type": "FEDERADO", "enrollment_date": "2026-10-19"}, true, "", "La fecha de inscripción no puede ser futura"},
		{"bad type", shared.Fields{"type": "X"}, true, "2026-10-18", "El tipo de inscripción debe ser FEDERADO, NO_FEDERADO o INVITADO"},
		{"update without date", shared.Fields{"type": "federado"}, false, "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := enrollment.Normalize(tc.fields, now, tc.defaultDate)
			if tc.wantErr != "" {
				require.Len(t, errs, 1)
				assert.Equal(t, tc.wantErr, errs[0].Message)
				return
			}
			require.Empty(t, errs)
			if tc.wantDate == "" {
				assert.NotContains(t, tc.fields, "enrollment_date")
				return
			}
			assert.Equal(t, tc.wantDate, tc.fields["enrollment_date"].(time.Time).Format(shared.DateLayout))
		})
	}
}
