package reports

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepository is an in-process Repository.
type MemoryRepository struct {
	mu   sync.Mutex
	rows []Report
}

func NewMemoryRepository() *MemoryRepository { return &MemoryRepository{} }

func (m *MemoryRepository) Insert(_ context.Context, r Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ReportID == r.ReportID {
			return fmt.Errorf("duplicate report id %s", r.ReportID)
		}
	}
	m.rows = append(m.rows, r)
	return nil
}

func (m *MemoryRepository) FindByID(_ context.Context, userID, reportID string) (Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ReportID == reportID && row.UserID == userID {
			return row, nil
		}
	}
	return Report{}, ErrNotFound
}

func (m *MemoryRepository) ListByUser(_ context.Context, userID string) ([]Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Report
	for _, row := range m.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
