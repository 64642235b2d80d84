// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/danielhkuo/campaign-vote/models"
	"github.com/danielhkuo/campaign-vote/voting"
)

// SQLStore implements voting.Store on PostgreSQL or SQLite.
type SQLStore struct {
	db       *sql.DB
	readOpts *sql.TxOptions
}

func NewSQLStore(db *sql.DB) *SQLStore {
	s := &SQLStore{db: db}
	// SQLite serializes on its single connection, so a plain transaction
	// already sees one state. PostgreSQL needs a repeatable-read snapshot.
	if _, ok := db.Driver().(*pq.Driver); ok {
		s.readOpts = &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}
	}
	return s
}

var _ voting.Store = (*SQLStore)(nil)

const campaignColumns = `
	id, title, description, votes_per_voter, status,
	start_at, end_at, revision, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner, c *models.Campaign) error {
	return row.Scan(
		&c.ID, &c.Title, &c.Description, &c.VotesPerVoter, &c.Status,
		&c.StartAt, &c.EndAt, &c.Revision, &c.CreatedAt, &c.UpdatedAt,
	)
}

// snapshot runs fn in one read transaction so the campaign row, candidate
// tallies and ledger all come from the same committed state.
func (s *SQLStore) snapshot(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, s.readOpts)
	if err != nil {
		return fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit read transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	var c models.Campaign
	err := s.snapshot(ctx, func(tx *sql.Tx) error {
		err := scanCampaign(tx.QueryRowContext(ctx, `
			SELECT `+campaignColumns+`
			FROM campaign
			WHERE id = $1
		`, id), &c)
		if err == sql.ErrNoRows {
			return voting.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to query campaign: %w", err)
		}

		candidates, err := queryCandidates(ctx, tx, `WHERE campaign_id = $1`, id)
		if err != nil {
			return err
		}
		ledgers, err := queryLedgers(ctx, tx, `WHERE campaign_id = $1`, id)
		if err != nil {
			return err
		}
		fill(&c, candidates, ledgers)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLStore) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	campaigns := []models.Campaign{}
	err := s.snapshot(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT `+campaignColumns+`
			FROM campaign
			ORDER BY created_at, id
		`)
		if err != nil {
			return fmt.Errorf("failed to query campaigns: %w", err)
		}

		for rows.Next() {
			var c models.Campaign
			if err := scanCampaign(rows, &c); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan campaign: %w", err)
			}
			campaigns = append(campaigns, c)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("failed to read campaigns: %w", err)
		}

		// Rows must be closed before the next query: SQLite runs on one connection.
		candidates, err := queryCandidates(ctx, tx, "")
		if err != nil {
			return err
		}
		ledgers, err := queryLedgers(ctx, tx, "")
		if err != nil {
			return err
		}

		for i := range campaigns {
			fill(&campaigns[i], candidates, ledgers)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func fill(c *models.Campaign, candidates map[string][]models.Candidate, ledgers map[string]models.Ledger) {
	c.Candidates = candidates[c.ID]
	if c.Candidates == nil {
		c.Candidates = []models.Candidate{}
	}
	c.Ledger = ledgers[c.ID]
	if c.Ledger == nil {
		c.Ledger = models.Ledger{}
	}
	normalizeTimes(c)
}

// queryCandidates returns candidates grouped by campaign id, in insertion order.
func queryCandidates(ctx context.Context, tx *sql.Tx, where string, args ...any) (map[string][]models.Candidate, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT campaign_id, id, name, description, vote_count, created_at
		FROM candidate
		`+where+`
		ORDER BY campaign_id, seq
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	byCampaign := make(map[string][]models.Candidate)
	for rows.Next() {
		var campaignID string
		var cand models.Candidate
		if err := rows.Scan(&campaignID, &cand.ID, &cand.Name, &cand.Description, &cand.VoteCount, &cand.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		cand.CreatedAt = cand.CreatedAt.UTC()
		byCampaign[campaignID] = append(byCampaign[campaignID], cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	return byCampaign, nil
}

// queryLedgers returns per-voter vote counts grouped by campaign id.
func queryLedgers(ctx context.Context, tx *sql.Tx, where string, args ...any) (map[string]models.Ledger, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT campaign_id, voter_id, COUNT(*)
		FROM vote_record
		`+where+`
		GROUP BY campaign_id, voter_id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	byCampaign := make(map[string]models.Ledger)
	for rows.Next() {
		var campaignID, voterID string
		var count int
		if err := rows.Scan(&campaignID, &voterID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan ledger: %w", err)
		}
		if byCampaign[campaignID] == nil {
			byCampaign[campaignID] = models.Ledger{}
		}
		byCampaign[campaignID][voterID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	return byCampaign, nil
}

func (s *SQLStore) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO campaign (id, title, description, votes_per_voter, status,
		                      start_at, end_at, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.ID, c.Title, c.Description, c.VotesPerVoter, c.Status,
		c.StartAt.UTC(), c.EndAt.UTC(), c.Revision, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert campaign: %w", err)
	}
	return nil
}

func (s *SQLStore) UpdateCampaign(ctx context.Context, c *models.Campaign) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE campaign
		SET title = $1, description = $2, votes_per_voter = $3,
		    start_at = $4, end_at = $5, updated_at = $6, revision = revision + 1
		WHERE id = $7
	`, c.Title, c.Description, c.VotesPerVoter,
		c.StartAt.UTC(), c.EndAt.UTC(), c.UpdatedAt.UTC(), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	return requireRow(res, voting.ErrNotFound)
}

func (s *SQLStore) SetStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE campaign
		SET status = $1, updated_at = $2, revision = revision + 1
		WHERE id = $3
	`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set campaign status: %w", err)
	}
	return requireRow(res, voting.ErrNotFound)
}

func (s *SQLStore) CloseCampaign(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE campaign
		SET status = $1, updated_at = $2, revision = revision + 1
		WHERE id = $3 AND status = $4
	`, models.StatusClosed, time.Now().UTC(), id, models.StatusOpen)
	if err != nil {
		return fmt.Errorf("failed to close campaign: %w", err)
	}
	return nil
}

func (s *SQLStore) DeleteCampaign(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"vote_record", "voter_quota", "candidate"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE campaign_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM campaign WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if err := requireRow(res, voting.ErrNotFound); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) AddCandidate(ctx context.Context, campaignID string, cand *models.Candidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM campaign WHERE id = $1)
	`, campaignID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to query campaign: %w", err)
	}
	if !exists {
		return voting.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO candidate (id, campaign_id, name, description, vote_count, seq, created_at)
		VALUES ($1, $2, $3, $4, 0,
		        (SELECT COALESCE(MAX(seq), 0) + 1 FROM candidate WHERE campaign_id = $2),
		        $5)
	`, cand.ID, campaignID, cand.Name, cand.Description, cand.CreatedAt.UTC())
	if isUniqueViolation(err) {
		return voting.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) RemoveCandidate(ctx context.Context, campaignID, candidateID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM candidate WHERE id = $1 AND campaign_id = $2
	`, candidateID, campaignID)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM campaign WHERE id = $1)
	`, campaignID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to query campaign: %w", err)
	}
	if !exists {
		return voting.ErrNotFound
	}
	return voting.ErrCandidateNotFound
}

// RecordVote applies one vote in a single transaction:
//  1. bump the candidate tally, only if the campaign is still open at the evaluated revision
//  2. bump the voter's quota counter, only while it is below the quota
//  3. append the ledger row
func (s *SQLStore) RecordVote(ctx context.Context, v voting.VoteIntent) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE candidate
		SET vote_count = vote_count + 1
		WHERE id = $1 AND campaign_id = $2
		  AND EXISTS (
		      SELECT 1 FROM campaign
		      WHERE id = $2 AND revision = $3 AND status = $4
		  )
	`, v.CandidateID, v.CampaignID, v.Revision, models.StatusOpen)
	if err != nil {
		return 0, fmt.Errorf("failed to increment candidate: %w", err)
	}
	if err := requireRow(res, voting.ErrStaleSnapshot); err != nil {
		return 0, err
	}

	var used int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO voter_quota (campaign_id, voter_id, used)
		VALUES ($1, $2, 1)
		ON CONFLICT (campaign_id, voter_id)
		DO UPDATE SET used = voter_quota.used + 1
		WHERE voter_quota.used < $3
		RETURNING used
	`, v.CampaignID, v.VoterID, v.Quota).Scan(&used)
	if err == sql.ErrNoRows {
		return 0, voting.ErrQuotaRace
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update voter quota: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote_record (id, campaign_id, voter_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), v.CampaignID, v.VoterID, v.CandidateID, v.CastAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to append ledger: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit vote: %w", err)
	}

	return used, nil
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func normalizeTimes(c *models.Campaign) {
	c.StartAt = c.StartAt.UTC()
	c.EndAt = c.EndAt.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
}
