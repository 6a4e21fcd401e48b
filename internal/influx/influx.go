// Package influx ships lap telemetry to InfluxDB, falling back to a gzip
// line-protocol file when the server is unreachable.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/gridwalk/racesim/internal/config"
)

// EventsBucket receives race lifecycle and advisory points next to the
// configured lap bucket.
const EventsBucket = "race_events"

// retention for buckets created on connect.
const retentionSeconds = 60 * 60 * 24 * 90

var ErrDisabled = errors.New("influx is disabled")

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client      influxdb2.Client
	Writers     map[string]influxdb2_api.WriteAPI
	IsValid     bool
	BucketNames []string
	Logger      zerolog.Logger
	BackupPath  string

	mu           sync.Mutex
	backupFile   *os.File
	backupWriter *gzip.Writer
	org          string
}

// NewManager creates a manager that falls back to backupPath.
func NewManager(log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		Writers:    make(map[string]influxdb2_api.WriteAPI),
		Logger:     log.With().Str("component", "influx").Logger(),
		BackupPath: backupPath,
	}
}

// Connect pings the server. On success it ensures the org and buckets exist
// and opens async writers; otherwise later writes go to the backup file.
func (m *Manager) Connect(ctx context.Context, cfg config.InfluxConfig) error {
	if !cfg.Enabled {
		return ErrDisabled
	}

	m.org = cfg.Org
	m.BucketNames = []string{cfg.Bucket, EventsBucket}
	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf("%s://%s:%s", cfg.Protocol, cfg.Host, cfg.Port),
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(ctx)
	if err != nil || !running {
		m.Logger.Warn().Err(err).Str("backupPath", m.BackupPath).
			Msg("InfluxDB unreachable, writing to backup file")
		return m.openBackup()
	}

	if err := m.setupOrganizationAndBuckets(ctx); err != nil {
		return err
	}
	m.createWriters()
	m.IsValid = true
	m.Logger.Info().Strs("buckets", m.BucketNames).Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) openBackup() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backupWriter != nil {
		return nil
	}
	file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backupFile = file
	m.backupWriter = gzip.NewWriter(file)
	return nil
}

func (m *Manager) setupOrganizationAndBuckets(ctx context.Context) error {
	orgs := m.Client.OrganizationsAPI()

	org, err := orgs.FindOrganizationByName(ctx, m.org)
	if err != nil {
		m.Logger.Info().Str("org", m.org).Msg("Organization not found, creating")
		org, err = orgs.CreateOrganizationWithName(ctx, m.org)
		if err != nil {
			return fmt.Errorf("create organization %s: %w", m.org, err)
		}
	}

	for _, bucket := range m.BucketNames {
		if _, err := m.Client.BucketsAPI().FindBucketByName(ctx, bucket); err == nil {
			continue
		}
		m.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")

		rule := domain.RetentionRuleTypeExpire
		_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, org, bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: retentionSeconds,
		})
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

func (m *Manager) createWriters() {
	for _, bucket := range m.BucketNames {
		w := m.Client.WriteAPI(m.org, bucket)
		m.Writers[bucket] = w

		go func(bucket string, errs <-chan error) {
			for writeErr := range errs {
				m.Logger.Error().Err(writeErr).Str("bucket", bucket).
					Msg("Error sending data to InfluxDB")
			}
		}(bucket, w.Errors())
	}
}

// WritePoint writes a point to InfluxDB or backup file.
func (m *Manager) WritePoint(ctx context.Context, bucket string, point *influxdb2_write.Point) error {
	if m.IsValid {
		w, ok := m.Writers[bucket]
		if !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		w.WritePoint(point)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backupWriter == nil {
		return errors.New("influxDB client not initialized and backup writer not available")
	}
	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := m.backupWriter.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// Close flushes pending writes and closes the client and backup file.
func (m *Manager) Close() error {
	for _, w := range m.Writers {
		w.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backupWriter == nil {
		return nil
	}
	err := errors.Join(m.backupWriter.Close(), m.backupFile.Close())
	m.backupWriter, m.backupFile = nil, nil
	return err
}
