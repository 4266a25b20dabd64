package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestHealthWithoutArchive(t *testing.T) {
	svc := NewHealthService(map[string]bool{"gemini": true, "elevenlabs": false}, nil, zap.NewNop())
	report := svc.Check(context.Background())

	if report.Status != HealthOK {
		t.Errorf("status = %q", report.Status)
	}
	if !report.Integrations["gemini"].Configured || report.Integrations["elevenlabs"].Configured {
		t.Errorf("integrations = %+v", report.Integrations)
	}
	if influx := report.Integrations["influxdb"]; influx.Configured || influx.Available != nil {
		t.Errorf("influxdb = %+v", influx)
	}
}

func TestHealthArchiveProbe(t *testing.T) {
	report := NewHealthService(nil, &fakeArchive{}, zap.NewNop()).Check(context.Background())
	influx := report.Integrations["influxdb"]
	if report.Status != HealthOK || influx.Available == nil || !*influx.Available {
		t.Errorf("healthy archive: %+v %+v", report, influx)
	}

	report = NewHealthService(nil, &fakeArchive{err: errors.New("refused")}, zap.NewNop()).Check(context.Background())
	influx = report.Integrations["influxdb"]
	if report.Status != HealthDegraded || influx.Available == nil || *influx.Available || influx.Error != "refused" {
		t.Errorf("failing archive: %+v %+v", report, influx)
	}
}
