package plan

import (
	"strings"
	"sync"
)

const (
	bagKey       = "grocery_bag"
	favoritesKey = "favorites"
)

// Bag is the user's current ingredient list. Membership is
// case-sensitive on the stored form but lookups trim surrounding
// whitespace first.
type Bag struct {
	mu    sync.Mutex
	items []string
	store Persistence
}

// NewBag loads any persisted bag contents from store.
func NewBag(store Persistence) (*Bag, error) {
	b := &Bag{store: store}
	if store != nil {
		if _, err := store.Load(bagKey, &b.items); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Add appends the ingredient if it is not already present. Blank input
// is ignored.
func (b *Bag) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexOf(name) >= 0 {
		return
	}
	b.items = append(b.items, name)
	persist(b.store, bagKey, b.items)
}

// Remove deletes the ingredient if present.
func (b *Bag) Remove(name string) {
	name = strings.TrimSpace(name)
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(name)
	if i < 0 {
		return
	}
	b.items = append(b.items[:i], b.items[i+1:]...)
	persist(b.store, bagKey, b.items)
}

// Toggle adds the ingredient when absent and removes it when present.
func (b *Bag) Toggle(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOf(name); i >= 0 {
		b.items = append(b.items[:i], b.items[i+1:]...)
	} else {
		b.items = append(b.items, name)
	}
	persist(b.store, bagKey, b.items)
}

// Has reports whether the ingredient is in the bag.
func (b *Bag) Has(name string) bool {
	name = strings.TrimSpace(name)
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.indexOf(name) >= 0
}

// Items returns a copy of the bag contents in insertion order.
func (b *Bag) Items() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Bag) indexOf(name string) int {
	for i, item := range b.items {
		if item == name {
			return i
		}
	}
	return -1
}

// Favorites tracks meal names the user has starred, most recent first.
type Favorites struct {
	mu    sync.Mutex
	names []string
	store Persistence
}

// NewFavorites loads any persisted favorites from store.
func NewFavorites(store Persistence) (*Favorites, error) {
	f := &Favorites{store: store}
	if store != nil {
		if _, err := store.Load(favoritesKey, &f.names); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Toggle stars the meal when absent (prepending it) and unstars it when
// present.
func (f *Favorites) Toggle(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.names {
		if n == name {
			f.names = append(f.names[:i], f.names[i+1:]...)
			persist(f.store, favoritesKey, f.names)
			return
		}
	}
	f.names = append([]string{name}, f.names...)
	persist(f.store, favoritesKey, f.names)
}

// Has reports whether the meal is starred.
func (f *Favorites) Has(name string) bool {
	name = strings.TrimSpace(name)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.names {
		if n == name {
			return true
		}
	}
	return false
}

// Names returns a copy of the starred meals, most recent first.
func (f *Favorites) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}
