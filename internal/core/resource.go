package core

import (
	"context"

	"github.com/JonMunkholm/newsroom/internal/database"
)

// ListRequest is the type-erased form of a list call.
type ListRequest struct {
	Skip         int
	Limit        int
	Criteria     Criteria
	Period       DateRange
	UseUpdatedAt bool    // Period applies to updated_at instead of created_at
	IDs          []int64 // Restrict to these primary keys when non-empty
}

// Resource exposes a Model without its entity type, for transports that
// deal in records.
type Resource interface {
	Info() TableInfo
	Get(ctx context.Context, s *database.Session, id int64) (Record, error)
	List(ctx context.Context, s *database.Session, req ListRequest) ([]Record, error)
	Create(ctx context.Context, s *database.Session, p Payload) (Record, error)
	Update(ctx context.Context, s *database.Session, id int64, p Payload) (Record, error)
	Delete(ctx context.Context, s *database.Session, id int64) error
}

// Resource returns the type-erased view of m.
func (m *Model[E]) Resource() Resource {
	return modelResource[E]{m: m}
}

type modelResource[E any] struct {
	m *Model[E]
}

func (r modelResource[E]) Info() TableInfo { return r.m.Info() }

func (r modelResource[E]) Get(ctx context.Context, s *database.Session, id int64) (Record, error) {
	e, err := r.m.GetByID(ctx, s, id)
	if err != nil {
		return nil, err
	}
	return r.m.Record(e), nil
}

func (r modelResource[E]) List(ctx context.Context, s *database.Session, req ListRequest) ([]Record, error) {
	init := r.m.Query()
	if len(req.IDs) > 0 {
		init = r.m.ByIDs(req.IDs)
	}
	init = r.m.FilterByPeriod(init, req.Period, req.UseUpdatedAt)

	items, err := r.m.List(ctx, s, ListParams{
		Skip:     req.Skip,
		Limit:    req.Limit,
		Criteria: req.Criteria,
		Init:     &init,
	})
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(items))
	for i, e := range items {
		records[i] = r.m.Record(e)
	}
	return records, nil
}

func (r modelResource[E]) Create(ctx context.Context, s *database.Session, p Payload) (Record, error) {
	e, err := r.m.Create(ctx, s, p)
	if err != nil {
		return nil, err
	}
	return r.m.Record(e), nil
}

func (r modelResource[E]) Update(ctx context.Context, s *database.Session, id int64, p Payload) (Record, error) {
	e, err := r.m.Update(ctx, s, id, p)
	if err != nil {
		return nil, err
	}
	return r.m.Record(e), nil
}

func (r modelResource[E]) Delete(ctx context.Context, s *database.Session, id int64) error {
	return r.m.Delete(ctx, s, id)
}
