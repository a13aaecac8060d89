package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository"
)

func (r *SQLiteRepo) CreateProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	p.Updated = now()
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if _, err := r.conn.Exec(ctx,
		`INSERT INTO profiles (id, user_id, document, version, updated) VALUES (?, ?, ?, 1, ?)`,
		p.ID, p.UserID, string(doc), p.Updated); err != nil {
		return err
	}
	p.Version = 1

	return nil
}

func (r *SQLiteRepo) GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	row := r.conn.QueryRow(ctx, `SELECT document, version FROM profiles WHERE user_id = ?`, userID)

	var doc string
	var version int64
	if err := row.Scan(&doc, &version); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return unmarshalProfile(doc, version)
}

func (r *SQLiteRepo) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT document, version FROM profiles ORDER BY updated DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		var doc string
		var version int64
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, err
		}
		p, err := unmarshalProfile(doc, version)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}

	return out, rows.Err()
}

// UpdateProfile writes the document back only if the stored version still
// matches p.Version; on success p.Version is advanced.
func (r *SQLiteRepo) UpdateProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	p.Updated = now()
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	res, err := r.conn.Exec(ctx,
		`UPDATE profiles SET document = ?, version = version + 1, updated = ? WHERE user_id = ? AND version = ?`,
		string(doc), p.Updated, p.UserID, p.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrVersionConflict
	}
	p.Version++

	return nil
}

func (r *SQLiteRepo) DeleteProfileByUserID(ctx context.Context, userID string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID)
	return err
}

func unmarshalProfile(doc string, version int64) (*models.Profile, error) {
	var p models.Profile
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	p.Version = version

	return &p, nil
}
