package training

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/leoscope/backend/internal/contracts"
)

// Repository handles persistence of training sessions and episodes
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveSession inserts or updates a session row. Upsert keeps the manager's
// in-memory state authoritative while it holds the session.
func (r *Repository) SaveSession(ctx context.Context, s *contracts.TrainingSession) error {
	hpJSON, err := json.Marshal(s.Hyperparameters)
	if err != nil {
		return fmt.Errorf("marshal hyperparameters: %w", err)
	}

	query := `
		INSERT INTO training.sessions (
			id, name, algorithm, status, hyperparameters,
			total_episodes, current_episode,
			created_at, started_at, finished_at, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			current_episode = EXCLUDED.current_episode,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at,
			error = EXCLUDED.error
	`

	_, err = r.db.Exec(ctx, query,
		s.ID, s.Name, string(s.Algorithm), string(s.Status), hpJSON,
		s.TotalEpisodes, s.CurrentEpisode,
		s.CreatedAt, s.StartedAt, s.FinishedAt, s.Error,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

// GetSession retrieves one session by ID
func (r *Repository) GetSession(ctx context.Context, id string) (*contracts.TrainingSession, error) {
	query := `
		SELECT id, name, algorithm, status, hyperparameters,
		       total_episodes, current_episode,
		       created_at, started_at, finished_at, error
		FROM training.sessions
		WHERE id = $1
	`

	row := r.db.QueryRow(ctx, query, id)

	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListSessions retrieves all sessions, newest first
func (r *Repository) ListSessions(ctx context.Context) ([]*contracts.TrainingSession, error) {
	query := `
		SELECT id, name, algorithm, status, hyperparameters,
		       total_episodes, current_episode,
		       created_at, started_at, finished_at, error
		FROM training.sessions
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*contracts.TrainingSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// DeleteSession removes a session and its episodes
func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM training.episodes WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("delete episodes: %w", err)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM training.sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrSessionNotFound
	}
	return nil
}

// SaveEpisode persists one episode outcome
func (r *Repository) SaveEpisode(ctx context.Context, ep *contracts.Episode) error {
	query := `
		INSERT INTO training.episodes (
			session_id, episode, reward, epsilon,
			selected_id, confidence, candidates, handover_ok, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		ep.SessionID, ep.Number, ep.Reward, ep.Epsilon,
		ep.SelectedID, ep.Confidence, ep.Candidates, ep.HandoverOK, ep.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}

	return nil
}

// GetEpisodes retrieves all episodes of a session in episode order
func (r *Repository) GetEpisodes(ctx context.Context, sessionID string) ([]contracts.Episode, error) {
	query := `
		SELECT session_id, episode, reward, epsilon,
		       selected_id, confidence, candidates, handover_ok, completed_at
		FROM training.episodes
		WHERE session_id = $1
		ORDER BY episode ASC
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []contracts.Episode
	for rows.Next() {
		var ep contracts.Episode
		if err := rows.Scan(
			&ep.SessionID, &ep.Number, &ep.Reward, &ep.Epsilon,
			&ep.SelectedID, &ep.Confidence, &ep.Candidates, &ep.HandoverOK, &ep.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, ep)
	}

	return episodes, rows.Err()
}

func scanSession(row pgx.Row) (*contracts.TrainingSession, error) {
	var s contracts.TrainingSession
	var algorithm, status string
	var hpJSON []byte

	if err := row.Scan(
		&s.ID, &s.Name, &algorithm, &status, &hpJSON,
		&s.TotalEpisodes, &s.CurrentEpisode,
		&s.CreatedAt, &s.StartedAt, &s.FinishedAt, &s.Error,
	); err != nil {
		return nil, err
	}

	s.Algorithm = contracts.Algorithm(algorithm)
	s.Status = contracts.SessionStatus(status)
	if err := json.Unmarshal(hpJSON, &s.Hyperparameters); err != nil {
		return nil, fmt.Errorf("unmarshal hyperparameters: %w", err)
	}

	return &s, nil
}
