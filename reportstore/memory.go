package reportstore

import (
	"context"
	"sync"
	"time"

	"forestreport/models"
)

// MemoryStore keeps the report log in process memory. Used for local runs
// and tests; nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []models.Report
	nextID  int64
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) EnsureSchema(context.Context) error { return nil }

func (s *MemoryStore) Append(_ context.Context, r NewReport) error {
	p, err := encodeReport(r)
	if err != nil {
		return ErrInsert{ReportType: string(r.Type), Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.reports = append(s.reports, models.Report{
		ID:          s.nextID,
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		Parameters:  rawJSON(p.Parameters),
		Result:      rawJSON(p.Result),
		GeneratedBy: r.GeneratedBy,
		CreatedAt:   models.Timestamp(s.now().UTC()),
	})
	return nil
}

func (s *MemoryStore) ListAll(_ context.Context, limit int) ([]models.Report, error) {
	return s.list(limit, func(models.Report) bool { return true })
}

func (s *MemoryStore) ListByType(_ context.Context, reportType models.ReportType, limit int) ([]models.Report, error) {
	return s.list(limit, func(r models.Report) bool { return r.Type == reportType })
}

// list walks the log backwards: append order is id order.
func (s *MemoryStore) list(limit int, keep func(models.Report) bool) ([]models.Report, error) {
	limit, err := NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Report, 0, limit)
	for i := len(s.reports) - 1; i >= 0 && len(out) < limit; i-- {
		if keep(s.reports[i]) {
			out = append(out, s.reports[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
