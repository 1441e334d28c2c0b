package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/newsroom/internal/database"
)

// Service hands out sessions and registered resources to transports.
type Service struct {
	db *database.Client
}

// NewService creates a new Service instance.
func NewService(db *database.Client) *Service {
	return &Service{db: db}
}

// ListTables returns information about all registered tables.
func (s *Service) ListTables() []TableInfo {
	resources := All()
	infos := make([]TableInfo, len(resources))
	for i, r := range resources {
		infos[i] = r.Info()
	}
	return infos
}

// Resource returns the registered resource for table.
func (s *Service) Resource(table string) (Resource, error) {
	r, ok := Get(table)
	if !ok {
		return nil, &OpError{Op: "resolve", Table: table, Kind: ErrNotFound, Msg: fmt.Sprintf("unknown table %q", table)}
	}
	return r, nil
}

// Session begins a unit of work. The operation it is passed to releases it.
func (s *Service) Session(ctx context.Context) (*database.Session, error) {
	sess, err := s.db.Session(ctx)
	if err != nil {
		return nil, &OpError{Op: "session", Kind: ErrInternal, Err: err}
	}
	return sess, nil
}

// Health pings the store.
func (s *Service) Health(ctx context.Context) error {
	return s.db.Ping(ctx)
}
