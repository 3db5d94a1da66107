package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"EUrbana.dashboard/internal/models"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

const readingMeasurement = "consumo_luminaria"

// ErrInvalidQuery rejects history parameters that are not safe to put in Flux.
var ErrInvalidQuery = errors.New("invalid history query")

// ReadingArchive keeps a time-series copy of consumption readings written
// through the dashboard.
type ReadingArchive interface {
	EnsureBucket(ctx context.Context) error
	WriteReading(ctx context.Context, reading models.Reading) error
	QueryHistory(ctx context.Context, req models.HistoryRequest) (models.HistoryResponse, error)
	Close()
}

// InfluxDBRepository archives readings in one InfluxDB bucket.
type InfluxDBRepository struct {
	client influxdb2.Client
	org    string
	bucket string
}

// NewInfluxDBRepository creates a new InfluxDBRepository.
func NewInfluxDBRepository(url, token, org, bucket string) *InfluxDBRepository {
	return &InfluxDBRepository{
		client: influxdb2.NewClient(url, token),
		org:    org,
		bucket: bucket,
	}
}

func (r *InfluxDBRepository) Close() {
	r.client.Close()
}

// EnsureBucket checks the server health and creates the bucket when missing.
func (r *InfluxDBRepository) EnsureBucket(ctx context.Context) error {
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

	if _, err := r.client.BucketsAPI().FindBucketByName(ctx, r.bucket); err == nil {
		return nil
	} else if !strings.Contains(strings.ToLower(err.Error()), "not found") {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}

	org, err := r.client.OrganizationsAPI().FindOrganizationByName(ctx, r.org)
	if err != nil {
		return fmt.Errorf("error finding organization '%s': %w", r.org, err)
	}
	if _, err := r.client.BucketsAPI().CreateBucketWithName(ctx, org, r.bucket); err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", r.bucket, err)
	}
	log.Printf("✅ Bucket '%s' created successfully.", r.bucket)
	return nil
}

// WriteReading writes one reading as a point tagged with its lamp.
func (r *InfluxDBRepository) WriteReading(ctx context.Context, reading models.Reading) error {
	p := readingPoint(reading, time.Now())
	if err := r.client.WriteAPIBlocking(r.org, r.bucket).WritePoint(ctx, p); err != nil {
		return fmt.Errorf("error writing to InfluxDB: %w", err)
	}
	log.Printf("Reading written to InfluxDB, bucket: %s, luminaria_id: %s, valor: %f", r.bucket, reading.LampID, reading.Value)
	return nil
}

func readingPoint(reading models.Reading, now time.Time) *write.Point {
	ts := reading.Time
	if ts.IsZero() {
		ts = now
	}
	fields := map[string]interface{}{"valor": reading.Value}
	if reading.Lumens != 0 {
		fields["lumenes"] = reading.Lumens
	}
	if reading.On != nil {
		fields["encendida"] = *reading.On
	}
	return influxdb2.NewPoint(readingMeasurement, map[string]string{"luminaria_id": reading.LampID}, fields, ts)
}

var (
	fluxDuration = regexp.MustCompile(`^(\d+(ns|us|µs|ms|s|m|h|d|w|mo|y))+$`)
	fluxTime     = regexp.MustCompile(`^(-?\d+(ns|us|µs|ms|s|m|h|d|w|mo|y))+$|^\d{4}-\d{2}-\d{2}T[0-9:.]+(Z|[+-]\d{2}:\d{2})$|^now\(\)$`)
	fluxTag      = regexp.MustCompile(`^[A-Za-z0-9_\-:.]+$`)
)

// HistoryQuery builds the Flux query for req, rejecting values that could
// alter the query.
func HistoryQuery(bucket string, req models.HistoryRequest) (string, error) {
	if !fluxTag.MatchString(req.LampID) {
		return "", fmt.Errorf("%w: luminaria_id %q", ErrInvalidQuery, req.LampID)
	}
	if !fluxTime.MatchString(req.TimeRangeStart) {
		return "", fmt.Errorf("%w: time_range_start %q", ErrInvalidQuery, req.TimeRangeStart)
	}
	stop := req.TimeRangeStop
	if stop == "" {
		stop = "now()"
	}
	if !fluxTime.MatchString(stop) {
		return "", fmt.Errorf("%w: time_range_stop %q", ErrInvalidQuery, stop)
	}
	if !fluxDuration.MatchString(req.WindowPeriod) {
		return "", fmt.Errorf("%w: window_period %q", ErrInvalidQuery, req.WindowPeriod)
	}

	return fmt.Sprintf(`
		from(bucket: "%s")
		|> range(start: %s, stop: %s)
		|> filter(fn: (r) => r["_measurement"] == "%s")
		|> filter(fn: (r) => r["luminaria_id"] == "%s")
		|> filter(fn: (r) => r["_field"] == "valor" or r["_field"] == "lumenes")
		|> aggregateWindow(every: %s, fn: mean, createEmpty: true)
		|> yield(name: "mean")
	`, bucket, req.TimeRangeStart, stop, readingMeasurement, req.LampID, req.WindowPeriod), nil
}

// QueryHistory returns the windowed mean of every archived field of one lamp.
func (r *InfluxDBRepository) QueryHistory(ctx context.Context, req models.HistoryRequest) (models.HistoryResponse, error) {
	fluxQuery, err := HistoryQuery(r.bucket, req)
	if err != nil {
		return models.HistoryResponse{}, err
	}
	log.Printf("Executing InfluxDB query: %s", fluxQuery)

	result, err := r.client.QueryAPI(r.org).Query(ctx, fluxQuery)
	if err != nil {
		return models.HistoryResponse{}, fmt.Errorf("error querying InfluxDB: %w", err)
	}
	defer result.Close()

	resp := models.HistoryResponse{LampID: req.LampID, Readings: make(map[string][]models.DataPoint)}
	for result.Next() {
		record := result.Record()
		field, _ := record.ValueByKey("_field").(string)
		point := models.DataPoint{Time: record.Time()}
		switch v := record.Value().(type) {
		case float64:
			point.Value = &v
		case int64:
			f := float64(v)
			point.Value = &f
		}
		resp.Readings[field] = append(resp.Readings[field], point)
	}
	if result.Err() != nil {
		return models.HistoryResponse{}, fmt.Errorf("error reading InfluxDB result: %w", result.Err())
	}
	for _, points := range resp.Readings {
		sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	}
	return resp, nil
}
