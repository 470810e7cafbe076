package plan

import (
	"sort"
	"strings"
	"sync"
	"time"

	"meal-planner/internal/pkg/common"
)

const scheduleKey = "scheduled_meals"

// Slot is a meal slot within a day.
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
)

// ParseSlot validates a slot name. The empty string is accepted and
// means "any slot" for removal.
func ParseSlot(s string) (Slot, error) {
	switch Slot(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case SlotBreakfast:
		return SlotBreakfast, nil
	case SlotLunch:
		return SlotLunch, nil
	case SlotDinner:
		return SlotDinner, nil
	default:
		return "", common.NewValidationError("slot must be breakfast, lunch or dinner")
	}
}

// ParseDate validates a YYYY-MM-DD date string and returns it in
// canonical form.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", common.NewValidationError("date must be a YYYY-MM-DD date")
	}
	return t.Format("2006-01-02"), nil
}

// Entry is one scheduled meal.
type Entry struct {
	Name string `json:"name"`
	Slot Slot   `json:"slot"`
}

// Schedule maps dates to the meals planned for them.
type Schedule struct {
	mu    sync.Mutex
	days  map[string][]Entry
	store Persistence
}

// NewSchedule loads any persisted schedule from store.
func NewSchedule(store Persistence) (*Schedule, error) {
	s := &Schedule{days: make(map[string][]Entry), store: store}
	if store != nil {
		if _, err := store.Load(scheduleKey, &s.days); err != nil {
			return nil, err
		}
		if s.days == nil {
			s.days = make(map[string][]Entry)
		}
	}
	return s, nil
}

// Add schedules a meal for a date and slot. Duplicate (date, name, slot)
// triples are ignored.
func (s *Schedule) Add(date, name string, slot Slot) {
	name = strings.TrimSpace(name)
	if name == "" || date == "" || slot == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.days[date] {
		if e.Name == name && e.Slot == slot {
			return
		}
	}
	s.days[date] = append(s.days[date], Entry{Name: name, Slot: slot})
	persist(s.store, scheduleKey, s.days)
}

// Remove unschedules a meal. An empty slot removes the meal from every
// slot on that date. Empty dates are dropped from the map.
func (s *Schedule) Remove(date, name string, slot Slot) {
	name = strings.TrimSpace(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.days[date]
	if len(entries) == 0 {
		return
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Name == name && (slot == "" || e.Slot == slot) {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == len(entries) {
		return
	}
	if len(kept) == 0 {
		delete(s.days, date)
	} else {
		s.days[date] = kept
	}
	persist(s.store, scheduleKey, s.days)
}

// MealsFor returns a copy of the entries scheduled for a date.
func (s *Schedule) MealsFor(date string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.days[date]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Days returns the scheduled dates in ascending order.
func (s *Schedule) Days() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// All returns a copy of the full schedule.
func (s *Schedule) All() map[string][]Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]Entry, len(s.days))
	for d, entries := range s.days {
		cp := make([]Entry, len(entries))
		copy(cp, entries)
		out[d] = cp
	}
	return out
}
