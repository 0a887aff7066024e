package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/veracitylabs/veracity/internal/cache"
	"github.com/veracitylabs/veracity/internal/engine"
)

// Stored text is truncated to keep rows bounded; the full result JSON is
// kept regardless.
const maxStoredTextLen = 5000

// Store persists analysis history in PostgreSQL.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Config contains database configuration
type Config struct {
	DatabaseURL     string        `yaml:"database_url" mapstructure:"database_url"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

// NewStore creates a new analysis store instance
func NewStore(config *Config, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	store := &Store{
		db:     db,
		logger: logger,
	}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	logger.Info("Analysis store initialized",
		zap.Int("max_open_conns", config.MaxOpenConns),
		zap.Int("max_idle_conns", config.MaxIdleConns))

	return store, nil
}

// initialize checks the connection and ensures the schema exists
func (s *Store) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id BIGSERIAL PRIMARY KEY,
			text_hash TEXT UNIQUE NOT NULL,
			text TEXT NOT NULL,
			score INTEGER NOT NULL,
			risk TEXT NOT NULL,
			ratio TEXT NOT NULL,
			certainty_count INTEGER NOT NULL,
			evidence_count INTEGER NOT NULL,
			claim_count INTEGER NOT NULL,
			word_count INTEGER NOT NULL,
			sentence_count INTEGER NOT NULL,
			result_json JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`,
		`CREATE TABLE IF NOT EXISTS api_requests (
			id BIGSERIAL PRIMARY KEY,
			api_key_name TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			status_code INTEGER NOT NULL,
			response_time DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema migration failed: %w", err)
		}
	}

	return nil
}

// SaveAnalysis persists one result keyed by the content hash of the
// original text. Re-analyzing the same text replaces the stored row.
func (s *Store) SaveAnalysis(ctx context.Context, text string, result *engine.Result) (int64, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal result: %w", err)
	}

	stored := truncateText(text, maxStoredTextLen)

	query := `
		INSERT INTO analyses
			(text_hash, text, score, risk, ratio, certainty_count, evidence_count,
			 claim_count, word_count, sentence_count, result_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (text_hash) DO UPDATE SET
			score = EXCLUDED.score,
			risk = EXCLUDED.risk,
			ratio = EXCLUDED.ratio,
			certainty_count = EXCLUDED.certainty_count,
			evidence_count = EXCLUDED.evidence_count,
			claim_count = EXCLUDED.claim_count,
			word_count = EXCLUDED.word_count,
			sentence_count = EXCLUDED.sentence_count,
			result_json = EXCLUDED.result_json
		RETURNING id`

	var id int64
	err = s.db.QueryRowContext(ctx, query,
		cache.Key(text),
		stored,
		result.Score,
		string(result.Risk),
		result.Ratio,
		len(result.CertaintyMarkers),
		len(result.EvidenceMarkers),
		len(result.Claims),
		result.Statistics.Words,
		result.Statistics.Sentences,
		resultJSON,
	).Scan(&id)

	if err != nil {
		s.logger.Error("Failed to save analysis", zap.Error(err))
		return 0, fmt.Errorf("failed to save analysis: %w", err)
	}

	s.logger.Debug("Analysis saved",
		zap.Int64("id", id),
		zap.Int("score", result.Score),
		zap.String("risk", string(result.Risk)))

	return id, nil
}

// GetAnalysis retrieves a stored result by content hash. A miss returns
// (nil, nil).
func (s *Store) GetAnalysis(ctx context.Context, textHash string) (*engine.Result, error) {
	var resultJSON []byte
	err := s.db.GetContext(ctx, &resultJSON,
		`SELECT result_json FROM analyses WHERE text_hash = $1`, textHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis: %w", err)
	}

	var result engine.Result
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored result: %w", err)
	}

	return &result, nil
}

// Statistics returns aggregate counts over the stored history.
func (s *Store) Statistics(ctx context.Context) (*AggregateStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(AVG(score), 0) AS avg_score,
			COALESCE(SUM(CASE WHEN risk = 'HIGH RISK' THEN 1 ELSE 0 END), 0) AS high_risk,
			COALESCE(SUM(CASE WHEN risk = 'MEDIUM RISK' THEN 1 ELSE 0 END), 0) AS medium_risk,
			COALESCE(SUM(CASE WHEN risk = 'LOW RISK' THEN 1 ELSE 0 END), 0) AS low_risk
		FROM analyses`

	var stats AggregateStats
	if err := s.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to query statistics: %w", err)
	}

	stats.AverageScore = math.Round(stats.AverageScore*10) / 10
	return &stats, nil
}

// ListRecent returns the most recent stored analyses, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	var records []AnalysisRecord
	err := s.db.SelectContext(ctx, &records,
		`SELECT * FROM analyses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	return records, nil
}

// LogRequest records one API request for monitoring.
func (s *Store) LogRequest(ctx context.Context, entry RequestLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_requests (api_key_name, endpoint, status_code, response_time)
		 VALUES ($1, $2, $3, $4)`,
		entry.APIKeyName, entry.Endpoint, entry.StatusCode, entry.ResponseTime)
	if err != nil {
		return fmt.Errorf("failed to log request: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// truncateText cuts s to at most max bytes without splitting a rune, so
// the stored text stays valid UTF-8.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
