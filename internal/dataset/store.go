package dataset

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"soundstage.systems/foleydeck/internal/fingerprint"
)

// Dataset is one loaded record file plus its content identity. The
// fingerprint changes exactly when the bytes change, which is what gallery
// state is keyed off: a new fingerprint means a new record list.
type Dataset struct {
	Name        string
	Path        string
	Records     []Record
	Fingerprint uuid.UUID
	ByteSize    int64
	LoadedAt    time.Time
}

// Store holds every loaded dataset behind one lock. Reads vastly outnumber
// reloads, so it is an RWMutex over a name-keyed map.
type Store struct {
	mu   sync.RWMutex
	site string

	datasets map[string]*Dataset
}

// NewStore creates an empty store. site scopes the content fingerprints.
func NewStore(site string) *Store {
	return &Store{
		site:     site,
		datasets: make(map[string]*Dataset),
	}
}

// LoadFile reads the record file at path and swaps it into the store under
// name. It returns the loaded dataset and whether its fingerprint differs
// from what the store previously held.
func (s *Store) LoadFile(name, path string) (*Dataset, bool, error) {
	records, err := Load(path)
	if err != nil {
		return nil, false, err
	}
	id, size, err := fingerprint.File(s.site, path)
	if err != nil {
		return nil, false, err
	}

	ds := &Dataset{
		Name:        name,
		Path:        path,
		Records:     records,
		Fingerprint: id,
		ByteSize:    size,
		LoadedAt:    time.Now(),
	}

	s.mu.Lock()
	prev := s.datasets[name]
	s.datasets[name] = ds
	s.mu.Unlock()

	changed := prev == nil || prev.Fingerprint != id
	return ds, changed, nil
}

// Get returns the dataset stored under name.
func (s *Store) Get(name string) (*Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[name]
	return ds, ok
}

// ByPath returns the dataset loaded from path.
func (s *Store) ByPath(path string) (*Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ds := range s.datasets {
		if ds.Path == path {
			return ds, true
		}
	}
	return nil, false
}

// All returns every dataset, ordered by name.
func (s *Store) All() []*Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Require returns the dataset stored under name or an error naming it.
func (s *Store) Require(name string) (*Dataset, error) {
	ds, ok := s.Get(name)
	if !ok {
		return nil, fmt.Errorf("dataset %q not loaded", name)
	}
	return ds, nil
}
