package motor

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pb33f/harview/motor/model"
)

var (
	ErrFilterNotFound = errors.New("filter not found")
	ErrInvalidPattern = errors.New("invalid filter pattern")
)

// FilterInput carries the user supplied fields of a new filter.
type FilterInput struct {
	Name        string            `json:"name" yaml:"name"`
	Pattern     string            `json:"pattern" yaml:"pattern"`
	PatternType model.PatternType `json:"patternType" yaml:"patternType"`
	Icon        string            `json:"icon" yaml:"icon"`
	Description string            `json:"description" yaml:"description"`
}

// FilterUpdate carries a partial update, nil fields are left alone.
type FilterUpdate struct {
	Name        *string            `json:"name,omitempty"`
	Pattern     *string            `json:"pattern,omitempty"`
	PatternType *model.PatternType `json:"patternType,omitempty"`
	Icon        *string            `json:"icon,omitempty"`
	Description *string            `json:"description,omitempty"`
}

// DefaultCustomFilters are the filters a fresh store starts with.
func DefaultCustomFilters() []model.CustomFilter {
	return []model.CustomFilter{
		{
			ID:          "custom-example",
			Name:        "Example API",
			Pattern:     "/api/example/",
			PatternType: model.PatternPath,
			Icon:        "🔷",
			Description: "Show only example API endpoint requests",
			CreatedAt:   time.Now().UnixMilli(),
		},
	}
}

var _ FilterStore = (*MemoryFilterStore)(nil)

// MemoryFilterStore keeps custom filters in memory, in display order.
type MemoryFilterStore struct {
	mu      sync.RWMutex
	filters []model.CustomFilter
	now     func() time.Time
	newID   func() string
}

// NewMemoryFilterStore creates a store seeded with the given filters.
func NewMemoryFilterStore(seed ...model.CustomFilter) *MemoryFilterStore {
	return &MemoryFilterStore{
		filters: slices.Clone(seed),
		now:     time.Now,
		newID: func() string {
			return "custom-" + uuid.NewString()
		},
	}
}

func (s *MemoryFilterStore) Add(input FilterInput) (model.CustomFilter, error) {
	if err := validateInput(input.Pattern, input.PatternType); err != nil {
		return model.CustomFilter{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filter := model.CustomFilter{
		ID:          s.newID(),
		Name:        input.Name,
		Pattern:     input.Pattern,
		PatternType: input.PatternType,
		Icon:        input.Icon,
		Description: input.Description,
		CreatedAt:   s.now().UnixMilli(),
	}
	s.filters = append(s.filters, filter)

	return filter, nil
}

func (s *MemoryFilterStore) Update(id string, update FilterUpdate) (model.CustomFilter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.CustomFilter{}, fmt.Errorf("%w: %s", ErrFilterNotFound, id)
	}

	updated := s.filters[i]
	if update.Name != nil {
		updated.Name = *update.Name
	}
	if update.Pattern != nil {
		updated.Pattern = *update.Pattern
	}
	if update.PatternType != nil {
		updated.PatternType = *update.PatternType
	}
	if update.Icon != nil {
		updated.Icon = *update.Icon
	}
	if update.Description != nil {
		updated.Description = *update.Description
	}

	if update.Pattern != nil || update.PatternType != nil {
		if err := validateInput(updated.Pattern, updated.PatternType); err != nil {
			return model.CustomFilter{}, err
		}
	}

	s.filters[i] = updated
	return updated, nil
}

func (s *MemoryFilterStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrFilterNotFound, id)
	}
	s.filters = slices.Delete(s.filters, i, i+1)
	return nil
}

func (s *MemoryFilterStore) Reorder(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.filters)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("reorder %d -> %d out of range [0, %d)", from, to, n)
	}

	moved := s.filters[from]
	s.filters = slices.Delete(s.filters, from, from+1)
	s.filters = slices.Insert(s.filters, to, moved)
	return nil
}

func (s *MemoryFilterStore) Get(id string) (model.CustomFilter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.CustomFilter{}, false
	}
	return s.filters[i], true
}

func (s *MemoryFilterStore) List() []model.CustomFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.CustomFilter{}, s.filters...)
}

// callers hold the lock
func (s *MemoryFilterStore) indexOf(id string) int {
	return slices.IndexFunc(s.filters, func(f model.CustomFilter) bool {
		return f.ID == id
	})
}

func validateInput(pattern string, patternType model.PatternType) error {
	if result := ValidatePattern(pattern, patternType); !result.IsValid {
		return fmt.Errorf("%w: %s", ErrInvalidPattern, result.Error)
	}
	return nil
}
