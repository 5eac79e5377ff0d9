package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. DB may be nil in memory mode.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status returns a health payload including database reachability.
func (s *Service) Status(ctx context.Context) map[string]bool {
	out := map[string]bool{"ok": true}
	if s.DB == nil {
		return out
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	out["db"] = s.DB.PingContext(pingCtx) == nil
	return out
}
