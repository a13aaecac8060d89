package sqlite

import (
	"time"

	"log/slog"

	"github.com/garnizeh/devconnect/internal/db"
	"github.com/garnizeh/devconnect/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
// Profile and post documents are stored as JSON in a single column with a
// version counter alongside; updates are conditional on that version.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.ProfileRepo = (*SQLiteRepo)(nil)
var _ repository.PostRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}
