package repository

import (
	"strings"
	"testing"

	"Sator.eden/internal/models"
)

func TestBuildArchiveQuery(t *testing.T) {
	q := BuildArchiveQuery("rover_telemetry", models.ArchiveQuery{
		Channel:        "top",
		Fields:         []string{"temperature", "humidity"},
		TimeRangeStart: "-24h",
		WindowPeriod:   "1h",
	})

	want := []string{
		`from(bucket: "rover_telemetry")`,
		`range(start: -24h)`,
		`r["_measurement"] == "rover_telemetry"`,
		`r["channel"] == "top"`,
		`r["_field"] == "temperature" or r["_field"] == "humidity"`,
		`aggregateWindow(every: 1h, fn: mean, createEmpty: false)`,
	}
	for _, fragment := range want {
		if !strings.Contains(q, fragment) {
			t.Errorf("query missing %q:\n%s", fragment, q)
		}
	}
}

func TestBuildArchiveQuerySingleField(t *testing.T) {
	q := BuildArchiveQuery("b", models.ArchiveQuery{
		Channel:        "bottom",
		Fields:         []string{"nitrogen"},
		TimeRangeStart: "-1h",
		WindowPeriod:   "5m",
	})
	if strings.Contains(q, " or ") {
		t.Errorf("single field query should not join filters:\n%s", q)
	}
	if !strings.Contains(q, `r["_field"] == "nitrogen"`) {
		t.Errorf("query missing field filter:\n%s", q)
	}
}
