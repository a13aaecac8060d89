package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository"
)

func (r *SQLiteRepo) CreatePost(ctx context.Context, p *models.Post) error {
	if p == nil {
		return fmt.Errorf("post is nil")
	}

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	if _, err := r.conn.Exec(ctx,
		`INSERT INTO posts (id, user_id, document, version, created) VALUES (?, ?, ?, 1, ?)`,
		p.ID, p.UserID, string(doc), p.Created); err != nil {
		return err
	}
	p.Version = 1

	return nil
}

func (r *SQLiteRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	row := r.conn.QueryRow(ctx, `SELECT document, version FROM posts WHERE id = ?`, id)

	var doc string
	var version int64
	if err := row.Scan(&doc, &version); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return unmarshalPost(doc, version)
}

// ListPosts returns all posts, most recent first.
func (r *SQLiteRepo) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT document, version FROM posts ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Post
	for rows.Next() {
		var doc string
		var version int64
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, err
		}
		p, err := unmarshalPost(doc, version)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}

	return out, rows.Err()
}

// UpdatePost writes the document back only if the stored version still
// matches p.Version; on success p.Version is advanced.
func (r *SQLiteRepo) UpdatePost(ctx context.Context, p *models.Post) error {
	if p == nil {
		return fmt.Errorf("post is nil")
	}

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	res, err := r.conn.Exec(ctx,
		`UPDATE posts SET document = ?, version = version + 1 WHERE id = ? AND version = ?`,
		string(doc), p.ID, p.Version)
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

func (r *SQLiteRepo) DeletePost(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

func unmarshalPost(doc string, version int64) (*models.Post, error) {
	var p models.Post
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("unmarshal post: %w", err)
	}
	p.Version = version

	return &p, nil
}
