package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/Sharruk/TravelGuard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	loc := "Calangute Beach, Goa"
	name := "Priya Sharma"
	snap := &models.ReportSnapshot{
		GeneratedAt: time.Date(2024, 12, 26, 9, 30, 0, 0, time.UTC),
		Tourists: []models.TouristRow{{
			Tourist: models.Tourist{
				ID:              "tourist-1",
				TouristID:       "TID-2024-001523",
				SafetyScore:     87,
				Status:          models.TouristSafe,
				CurrentLocation: &loc,
			},
			OwnerName: &name,
		}},
		Alerts: []models.Alert{
			{ID: "alert-1-long-identifier", Type: models.AlertPanic, Severity: models.SeverityCritical, Status: models.AlertActive},
			{ID: "alert-2", Type: models.AlertMedical, Severity: models.SeverityLow, Status: models.AlertResolved},
		},
		Zones: []models.GeoZone{{ID: "zone-1", Type: models.ZoneRestricted}},
	}

	out, err := Render(snap)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, "tourist_safety_report_20241226_093000.pdf", Filename(snap))
	assert.Len(t, snap.ActiveAlerts(), 1)
	assert.Equal(t, 1, snap.RestrictedZones())
}

func TestRenderEmptySnapshot(t *testing.T) {
	out, err := Render(&models.ReportSnapshot{GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
