// Package storage persists detection decision records to PostgreSQL so CI
// verdicts stay auditable after the pipeline run is gone.
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/llmbench/regression-detector/detector/types"
)

// DecisionStore persists and retrieves detection decision records
type DecisionStore interface {
	Start(ctx context.Context) error
	Stop() error

	SaveDecision(ctx context.Context, record *types.DecisionRecord) error
	GetDecision(ctx context.Context, id string) (*types.DecisionRecord, error)
	ListDecisions(ctx context.Context, limit int) ([]*types.DecisionRecord, error)
}

// decisionStore implements DecisionStore over database/sql
type decisionStore struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// NewDecisionStore creates a decision store using an existing database
// connection
func NewDecisionStore(db *sql.DB, log logrus.FieldLogger) DecisionStore {
	return &decisionStore{
		db:  db,
		log: log.WithField("component", "decision-store"),
	}
}

// Start creates the decisions table if it does not exist
func (s *decisionStore) Start(ctx context.Context) error {
	s.log.Info("Starting decision store")

	query := `
		CREATE TABLE IF NOT EXISTS regression_decisions (
			id VARCHAR(255) PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			input_hash VARCHAR(64) NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			worst_severity VARCHAR(50) NOT NULL,
			constraints JSONB NOT NULL DEFAULT '[]',
			summary JSONB NOT NULL,
			model_results JSONB NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON regression_decisions(created_at);
		CREATE INDEX IF NOT EXISTS idx_decisions_worst_severity ON regression_decisions(worst_severity);
		CREATE INDEX IF NOT EXISTS idx_decisions_input_hash ON regression_decisions(input_hash);`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create decisions table: %w", err)
	}

	return nil
}

// Stop shuts down the decision store
func (s *decisionStore) Stop() error {
	s.log.Info("Stopping decision store")
	return nil
}

// SaveDecision inserts a decision record. Saving the same id twice updates
// the mutable fields.
func (s *decisionStore) SaveDecision(ctx context.Context, record *types.DecisionRecord) error {
	s.log.WithFields(logrus.Fields{
		"decision_id":    record.ID,
		"worst_severity": record.WorstSeverity,
	}).Info("Saving decision record")

	constraintsJSON, err := json.Marshal(record.Constraints)
	if err != nil {
		return fmt.Errorf("failed to marshal constraints: %w", err)
	}
	summaryJSON, err := json.Marshal(record.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	resultsJSON, err := json.Marshal(record.ModelResults)
	if err != nil {
		return fmt.Errorf("failed to marshal model results: %w", err)
	}

	query := `
		INSERT INTO regression_decisions (
			id, created_at, input_hash, confidence, worst_severity,
			constraints, summary, model_results
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			confidence = EXCLUDED.confidence,
			worst_severity = EXCLUDED.worst_severity,
			constraints = EXCLUDED.constraints,
			summary = EXCLUDED.summary,
			model_results = EXCLUDED.model_results`

	_, err = s.db.ExecContext(ctx, query,
		record.ID, record.CreatedAt, record.InputHash, record.Confidence,
		record.WorstSeverity, constraintsJSON, summaryJSON, resultsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert decision record: %w", err)
	}

	return nil
}

// GetDecision retrieves one decision record by id
func (s *decisionStore) GetDecision(ctx context.Context, id string) (*types.DecisionRecord, error) {
	query := `
		SELECT id, created_at, input_hash, confidence, worst_severity,
		       constraints, summary, model_results
		FROM regression_decisions
		WHERE id = $1`

	record, err := scanDecision(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("decision not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query decision: %w", err)
	}

	return record, nil
}

// ListDecisions retrieves the most recent decision records
func (s *decisionStore) ListDecisions(ctx context.Context, limit int) ([]*types.DecisionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, created_at, input_hash, confidence, worst_severity,
		       constraints, summary, model_results
		FROM regression_decisions
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var records []*types.DecisionRecord
	for rows.Next() {
		record, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDecision(row rowScanner) (*types.DecisionRecord, error) {
	record := &types.DecisionRecord{}
	var constraintsJSON, summaryJSON, resultsJSON []byte

	err := row.Scan(&record.ID, &record.CreatedAt, &record.InputHash,
		&record.Confidence, &record.WorstSeverity,
		&constraintsJSON, &summaryJSON, &resultsJSON)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(constraintsJSON, &record.Constraints); err != nil {
		return nil, fmt.Errorf("failed to unmarshal constraints: %w", err)
	}
	if err := json.Unmarshal(summaryJSON, &record.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	if err := json.Unmarshal(resultsJSON, &record.ModelResults); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model results: %w", err)
	}

	return record, nil
}

// NewDecisionRecord packages a detection result into an audit record
func NewDecisionRecord(result *types.DetectionResult, inputHash string) *types.DecisionRecord {
	return &types.DecisionRecord{
		ID:            uuid.New().String(),
		CreatedAt:     time.Now().UTC(),
		InputHash:     inputHash,
		Confidence:    result.Confidence.Confidence,
		Constraints:   result.Constraints,
		WorstSeverity: result.Summary.WorstSeverity,
		Summary:       result.Summary,
		ModelResults:  result.ModelResults,
	}
}

// HashInputs computes a stable digest of the comparison inputs so a decision
// can be traced back to the exact runs it covered
func HashInputs(baselineRuns, candidateRuns []types.RunRecord) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	enc.Encode(baselineRuns)
	enc.Encode(candidateRuns)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Connect opens a PostgreSQL connection and verifies it
func Connect(connStr string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
