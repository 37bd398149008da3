package relationaldb

import (
	"context"
	"database/sql"
	"time"
)

// SQLSystem is the SystemRepository both SQL backends share.
type SQLSystem struct {
	DB *sql.DB
	// Timeout bounds each ping; zero leaves the caller's deadline alone.
	Timeout time.Duration
}

func (s *SQLSystem) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return ErrDatabaseClosed
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	if err := s.DB.PingContext(ctx); err != nil {
		return NewConnectionError("ping", "database ping failed", err)
	}
	return nil
}
