package prompt

import (
	"time"
)

// Daily is the prompt selected for a calendar day.
type Daily struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Prompt   string `json:"prompt"`
}

// Store exposes prompt retrieval for HTTP handlers.
type Store interface {
	List() []Category
	FindByName(name string) (Category, bool)
	ForDay(day time.Time) (Daily, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Category
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied categories.
func NewMemoryStore(items []Category) *MemoryStore {
	copied := make([]Category, 0, len(items))
	for _, item := range items {
		copied = append(copied, Category{
			Name:    item.Name,
			Prompts: append([]string(nil), item.Prompts...),
		})
	}
	return &MemoryStore{items: copied}
}

// List returns every category and its prompts.
func (s *MemoryStore) List() []Category {
	return NewMemoryStore(s.items).items
}

// FindByName looks up a category by its display name.
func (s *MemoryStore) FindByName(name string) (Category, bool) {
	for _, item := range s.items {
		if item.Name == name {
			return Category{Name: item.Name, Prompts: append([]string(nil), item.Prompts...)}, true
		}
	}
	return Category{}, false
}

// ForDay picks one prompt per UTC calendar day, walking the flattened catalog
// so consecutive days get consecutive prompts.
func (s *MemoryStore) ForDay(day time.Time) (Daily, bool) {
	total := 0
	for _, item := range s.items {
		total += len(item.Prompts)
	}
	if total == 0 {
		return Daily{}, false
	}

	utc := day.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	dayNumber := midnight.Unix() / int64(24*time.Hour/time.Second)

	idx := int(dayNumber % int64(total))
	if idx < 0 {
		idx += total
	}

	for _, item := range s.items {
		if idx < len(item.Prompts) {
			return Daily{
				Date:     midnight.Format(time.DateOnly),
				Category: item.Name,
				Prompt:   item.Prompts[idx],
			}, true
		}
		idx -= len(item.Prompts)
	}
	return Daily{}, false
}
