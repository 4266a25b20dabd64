package repository

import (
	"context"
	"fmt"
	"strings"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"go.uber.org/zap"

	"Sator.eden/internal/models"
)

// Measurement is the InfluxDB measurement holding rover readings; every
// point is tagged with its channel.
const Measurement = "rover_telemetry"

// Repository archives channel readings and queries them back.
type Repository interface {
	WriteReading(ctx context.Context, point models.ArchivePoint) error
	Query(ctx context.Context, query models.ArchiveQuery) (map[string][]models.DataPoint, error)
	Ping(ctx context.Context) error
}

// InfluxDBRepository is a repository for writing data to InfluxDB.
type InfluxDBRepository struct {
	client influxdb2.Client
	org    string
	bucket string
	logger *zap.Logger
}

// NewInfluxDBRepository creates a new InfluxDBRepository.
func NewInfluxDBRepository(url, token, org, bucket string, logger *zap.Logger) *InfluxDBRepository {
	return &InfluxDBRepository{
		client: influxdb2.NewClient(url, token),
		org:    org,
		bucket: bucket,
		logger: logger,
	}
}

// Close releases the client's connections.
func (r *InfluxDBRepository) Close() {
	r.client.Close()
}

// Ping checks the InfluxDB health endpoint.
func (r *InfluxDBRepository) Ping(ctx context.Context) error {
	health, err := r.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	if health.Status != "pass" {
		msg := ""
		if health.Message != nil {
			msg = *health.Message
		}
		return fmt.Errorf("InfluxDB health check failed: %s", msg)
	}
	return nil
}

// WriteReading writes one channel entry. Entries carry the vendor timestamp,
// so writing the same entry twice overwrites the same point.
func (r *InfluxDBRepository) WriteReading(ctx context.Context, point models.ArchivePoint) error {
	writeAPI := r.client.WriteAPIBlocking(r.org, r.bucket)

	fields := make(map[string]interface{}, len(point.Fields))
	for name, value := range point.Fields {
		fields[name] = value
	}
	p := influxdb2.NewPoint(
		Measurement,
		map[string]string{"channel": point.Channel}, // tags
		fields,
		point.Time,
	)

	if err := writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("error writing to InfluxDB: %w", err)
	}
	r.logger.Debug("Reading archived",
		zap.String("bucket", r.bucket),
		zap.String("channel", point.Channel),
		zap.Time("time", point.Time),
	)
	return nil
}

// EnsureBucket creates the archive bucket when it does not exist yet.
func (r *InfluxDBRepository) EnsureBucket(ctx context.Context) error {
	exists, err := r.bucketExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	org, err := r.client.OrganizationsAPI().FindOrganizationByName(ctx, r.org)
	if err != nil {
		return fmt.Errorf("error finding organization '%s': %w", r.org, err)
	}
	if org == nil {
		return fmt.Errorf("organization '%s' not found", r.org)
	}
	if _, err := r.client.BucketsAPI().CreateBucketWithName(ctx, org, r.bucket); err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", r.bucket, err)
	}
	r.logger.Info("Archive bucket created", zap.String("bucket", r.bucket))
	return nil
}

func (r *InfluxDBRepository) bucketExists(ctx context.Context) (bool, error) {
	_, err := r.client.BucketsAPI().FindBucketByName(ctx, r.bucket)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return false, nil
		}
		return false, fmt.Errorf("error checking bucket existence: %w", err)
	}
	return true, nil
}

// Query returns windowed means of the requested fields of one channel,
// grouped by field. Query values must be validated by the caller.
func (r *InfluxDBRepository) Query(ctx context.Context, query models.ArchiveQuery) (map[string][]models.DataPoint, error) {
	fluxQuery := BuildArchiveQuery(r.bucket, query)
	r.logger.Debug("Executing InfluxDB query", zap.String("query", fluxQuery))

	result, err := r.client.QueryAPI(r.org).Query(ctx, fluxQuery)
	if err != nil {
		return nil, fmt.Errorf("error querying InfluxDB: %w", err)
	}
	defer result.Close()

	grouped := make(map[string][]models.DataPoint)
	for result.Next() {
		record := result.Record()
		point := models.DataPoint{Time: record.Time()}
		switch v := record.Value().(type) {
		case float64:
			point.Value = &v
		case int64:
			f := float64(v)
			point.Value = &f
		}
		grouped[record.Field()] = append(grouped[record.Field()], point)
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("query error: %w", result.Err())
	}
	return grouped, nil
}

// BuildArchiveQuery renders the Flux query for an archive lookup.
func BuildArchiveQuery(bucket string, query models.ArchiveQuery) string {
	fieldFilters := make([]string, len(query.Fields))
	for i, field := range query.Fields {
		fieldFilters[i] = fmt.Sprintf(`r["_field"] == "%s"`, field)
	}

	return fmt.Sprintf(`from(bucket: "%s")
	|> range(start: %s)
	|> filter(fn: (r) => r["_measurement"] == "%s")
	|> filter(fn: (r) => r["channel"] == "%s")
	|> filter(fn: (r) => %s)
	|> aggregateWindow(every: %s, fn: mean, createEmpty: false)
	|> yield(name: "mean")`,
		bucket, query.TimeRangeStart, Measurement, query.Channel, strings.Join(fieldFilters, " or "), query.WindowPeriod)
}

var _ Repository = (*InfluxDBRepository)(nil)
