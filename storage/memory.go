package storage

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/ferreirogomes/propfolio/models"

	"github.com/google/uuid"
)

// MemoryStore guarda os imóveis em memória. Útil em testes e desenvolvimento local.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]models.Property
	order []string
}

// NewMemoryStore cria um store vazio.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]models.Property)}
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func (s *MemoryStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Property, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, clone(s.items[id]))
	}
	return out, nil
}

func (s *MemoryStore) GetProperty(ctx context.Context, id string) (models.Property, bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Property{}, false, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.items[id]
	if !ok {
		return models.Property{}, false, nil
	}
	return clone(p), true, nil
}

func (s *MemoryStore) InsertProperty(ctx context.Context, p models.Property) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.New().String()
	s.items[p.ID] = clone(p)
	s.order = append(s.order, p.ID)
	return p.ID, nil
}

func (s *MemoryStore) UpdateProperty(ctx context.Context, id string, patch models.PropertyPatch) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	updated := clone(current)
	patch.ApplyTo(&updated)
	if reflect.DeepEqual(current, updated) {
		return ErrNotModified
	}
	s.items[id] = updated
	return nil
}

func (s *MemoryStore) DeleteProperty(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *MemoryStore) CountProperties(ctx context.Context, f models.MetricsFilter) (int64, error) {
	return int64(len(s.filter(f))), nil
}

func (s *MemoryStore) AveragePurchasePrice(ctx context.Context, f models.MetricsFilter) (float64, bool, error) {
	matched := s.filter(f)
	if len(matched) == 0 {
		return 0, false, nil
	}
	var sum float64
	for _, p := range matched {
		sum += p.PurchasePrice
	}
	return sum / float64(len(matched)), true, nil
}

func (s *MemoryStore) RecentProperties(ctx context.Context, f models.MetricsFilter, limit int) ([]models.PropertySummary, error) {
	matched := s.filter(f)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit >= 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]models.PropertySummary, 0, len(matched))
	for _, p := range matched {
		out = append(out, models.PropertySummary{
			ID:        p.ID,
			Title:     p.Title,
			Location:  p.Location,
			Type:      p.Type,
			CreatedAt: p.CreatedAt,
		})
	}
	return out, nil
}

func (s *MemoryStore) CountByType(ctx context.Context) ([]models.TypeCount, error) {
	s.mu.RLock()
	counts := make(map[string]int64)
	for _, p := range s.items {
		counts[p.Type]++
	}
	s.mu.RUnlock()

	out := make([]models.TypeCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, models.TypeCount{Type: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

// filter retorna cópias dos imóveis que atendem ao filtro, em ordem de inserção.
func (s *MemoryStore) filter(f models.MetricsFilter) []models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Property
	for _, id := range s.order {
		p := s.items[id]
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.CreatedFrom != nil && p.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedBefore != nil && !p.CreatedAt.Before(*f.CreatedBefore) {
			continue
		}
		out = append(out, clone(p))
	}
	return out
}

func clone(p models.Property) models.Property {
	if p.Owners != nil {
		p.Owners = append(models.Owners(nil), p.Owners...)
	}
	return p
}
