// Package vecstore implements the flat inner-product vector store that backs
// position matching: a dense array of fixed-dimension vectors, a bidirectional
// mapping between caller IDs and internal slots, per-entry metadata, and a
// rebuildable similarity index, all persisted to disk as one consistency unit.
package vecstore

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Action reports whether an Add inserted a new entry or replaced an existing one.
type Action string

const (
	ActionAdded   Action = "added"
	ActionUpdated Action = "updated"
)

// Entry is a stored vector with its identifiers and metadata.
type Entry struct {
	OriginalID string         `json:"id"`
	InternalID int            `json:"internal_id"`
	Vector     []float32      `json:"vector,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// AddResult describes the outcome of an Add.
type AddResult struct {
	Action     Action
	InternalID int
	Total      int
}

// SearchResult is one ranked match resolved back to its original ID.
type SearchResult struct {
	InternalID int            `json:"internal_id"`
	Score      float32        `json:"distance"`
	OriginalID string         `json:"original_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// IDPair couples an original ID with its internal slot.
type IDPair struct {
	OriginalID string `json:"id"`
	InternalID int    `json:"internal_id"`
}

// Info is a diagnostic snapshot of the store.
type Info struct {
	Dimension    int    `json:"dimension"`
	TotalSlots   int    `json:"total_slots"`
	LiveCount    int    `json:"live_count"`
	RetiredCount int    `json:"retired_count"`
	IndexCount   int    `json:"index_count"`
	VectorsPath  string `json:"vectors_path"`
	MappingPath  string `json:"mapping_path"`
	IndexPath    string `json:"index_path"`
}

// Store owns the vector array, ID maps, metadata, and similarity index.
// All mutations run under an exclusive lock and follow the same sequence:
// validate, mutate in memory, rebuild the index, persist to disk. A success
// return therefore guarantees both index consistency and durability.
type Store struct {
	mu sync.RWMutex

	dim int
	dir string

	// vectors is indexed by internal ID. Deleted slots are zeroed, never
	// compacted, so internal IDs stay stable for surviving entries.
	vectors      [][]float32
	idToInternal map[string]int
	internalToID map[int]string
	metadata     map[int]map[string]any

	index  *flatIndex
	logger *slog.Logger
	closed bool
}

// Open loads (or initializes) a store rooted at dir with the given dimension.
// The three persisted files are treated as a unit: if the index file's item
// count diverges from the vector file, the index is rebuilt from the vectors,
// which are authoritative.
func Open(dir string, dim int) (*Store, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	s := &Store{
		dim:          dim,
		dir:          dir,
		idToInternal: make(map[string]int),
		internalToID: make(map[int]string),
		metadata:     make(map[int]map[string]any),
		index:        newFlatIndex(dim),
		logger:       slog.Default(),
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close marks the store unusable. Persisted state is already on disk after
// every mutation, so there is nothing to flush.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Dimension returns the configured vector dimension.
func (s *Store) Dimension() int {
	return s.dim
}

// Add inserts a vector under id, or replaces the vector and metadata in place
// when id is already present. The index is rebuilt and all files persisted
// before Add returns.
func (s *Store) Add(id string, vec []float32, meta map[string]any) (AddResult, error) {
	if err := s.validateVector(vec); err != nil {
		return AddResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return AddResult{}, ErrClosed
	}

	stored := make([]float32, s.dim)
	copy(stored, vec)

	internal, exists := s.idToInternal[id]
	action := ActionUpdated
	if !exists {
		var err error
		internal, err = s.assignLocked(id)
		if err != nil {
			return AddResult{}, err
		}
		s.vectors = append(s.vectors, stored)
		action = ActionAdded
	} else {
		s.vectors[internal] = stored
	}

	if meta != nil {
		s.metadata[internal] = meta
	} else {
		delete(s.metadata, internal)
	}

	s.index.Rebuild(s.vectors)
	if err := s.persistLocked(); err != nil {
		return AddResult{}, fmt.Errorf("persist after add: %w", err)
	}

	return AddResult{Action: action, InternalID: internal, Total: len(s.idToInternal)}, nil
}

// Search returns up to k live entries ranked by descending inner product with
// the query vector. It fails with ErrEmptyIndex when no live entries exist.
func (s *Store) Search(query []float32, k int) ([]SearchResult, error) {
	if err := s.validateVector(query); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	if len(s.idToInternal) == 0 {
		return nil, ErrEmptyIndex
	}

	hits := s.index.Search(query, k, func(internalID int) bool {
		_, live := s.internalToID[internalID]
		return live
	})

	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		originalID, ok := s.internalToID[h.InternalID]
		if !ok {
			continue
		}
		results = append(results, SearchResult{
			InternalID: h.InternalID,
			Score:      h.Score,
			OriginalID: originalID,
			Metadata:   s.metadata[h.InternalID],
		})
	}
	return results, nil
}

// Get returns the entry stored under the original ID.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Entry{}, ErrClosed
	}

	internal, ok := s.idToInternal[id]
	if !ok {
		return Entry{}, fmt.Errorf("id %q: %w", id, ErrNotFound)
	}
	return s.entryLocked(internal), nil
}

// Reconstruct returns the entry stored at an internal slot. Retired slots
// report ErrNotFound even though the zeroed vector still occupies space.
func (s *Store) Reconstruct(internalID int) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Entry{}, ErrClosed
	}

	if internalID < 0 || internalID >= len(s.vectors) {
		return Entry{}, fmt.Errorf("internal id %d out of range: %w", internalID, ErrNotFound)
	}
	if _, live := s.internalToID[internalID]; !live {
		return Entry{}, fmt.Errorf("internal id %d retired: %w", internalID, ErrNotFound)
	}
	return s.entryLocked(internalID), nil
}

// List returns all live ID pairs ordered by internal ID.
func (s *Store) List() []IDPair {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pairs := make([]IDPair, 0, len(s.idToInternal))
	for id, internal := range s.idToInternal {
		pairs = append(pairs, IDPair{OriginalID: id, InternalID: internal})
	}
	sort.Slice(pairs, func(a, b int) bool {
		return pairs[a].InternalID < pairs[b].InternalID
	})
	return pairs
}

// Entries returns all live entries ordered by internal ID, with vectors
// included only when withVectors is set. Intended for diagnostics.
func (s *Store) Entries(withVectors bool) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.idToInternal))
	for _, internal := range s.sortedInternalsLocked() {
		e := s.entryLocked(internal)
		if !withVectors {
			e.Vector = nil
		}
		entries = append(entries, e)
	}
	return entries
}

// Delete retires the entry under id: the slot is zeroed (not compacted), both
// map directions and the metadata are removed, and the internal ID is never
// reassigned. The index is rebuilt and persisted before Delete returns.
func (s *Store) Delete(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	internal, ok := s.idToInternal[id]
	if !ok {
		return 0, fmt.Errorf("id %q: %w", id, ErrNotFound)
	}

	s.vectors[internal] = make([]float32, s.dim)
	delete(s.idToInternal, id)
	delete(s.internalToID, internal)
	delete(s.metadata, internal)

	s.index.Rebuild(s.vectors)
	if err := s.persistLocked(); err != nil {
		return 0, fmt.Errorf("persist after delete: %w", err)
	}
	return internal, nil
}

// Clear discards every entry and recreates empty persisted files.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.vectors = nil
	s.idToInternal = make(map[string]int)
	s.internalToID = make(map[int]string)
	s.metadata = make(map[int]map[string]any)
	s.index.Rebuild(nil)

	if err := s.persistLocked(); err != nil {
		return fmt.Errorf("persist after clear: %w", err)
	}
	return nil
}

// LiveCount reports the number of live entries.
func (s *Store) LiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.idToInternal)
}

// Len reports the number of slots ever assigned, including retired ones.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Info returns a diagnostic snapshot.
func (s *Store) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Info{
		Dimension:    s.dim,
		TotalSlots:   len(s.vectors),
		LiveCount:    len(s.idToInternal),
		RetiredCount: len(s.vectors) - len(s.idToInternal),
		IndexCount:   s.index.Len(),
		VectorsPath:  s.vectorsPath(),
		MappingPath:  s.mappingPath(),
		IndexPath:    s.indexPath(),
	}
}

// assignLocked hands out the next sequential internal ID for a new original
// ID. IDs are dense from zero and never reused after deletion.
func (s *Store) assignLocked(id string) (int, error) {
	if _, ok := s.idToInternal[id]; ok {
		return 0, fmt.Errorf("id %q: %w", id, ErrDuplicateID)
	}
	internal := len(s.vectors)
	s.idToInternal[id] = internal
	s.internalToID[internal] = id
	return internal, nil
}

func (s *Store) entryLocked(internal int) Entry {
	vec := make([]float32, s.dim)
	copy(vec, s.vectors[internal])

	meta := s.metadata[internal]
	if meta == nil {
		meta = map[string]any{}
	}
	return Entry{
		OriginalID: s.internalToID[internal],
		InternalID: internal,
		Vector:     vec,
		Metadata:   meta,
	}
}

func (s *Store) sortedInternalsLocked() []int {
	internals := make([]int, 0, len(s.internalToID))
	for internal := range s.internalToID {
		internals = append(internals, internal)
	}
	sort.Ints(internals)
	return internals
}

// validateVector rejects wrong-length and non-finite vectors before any
// mutation happens.
func (s *Store) validateVector(vec []float32) error {
	if len(vec) != s.dim {
		return &DimensionError{Expected: s.dim, Actual: len(vec)}
	}
	for i, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &ValueError{Position: i, Value: f}
		}
	}
	return nil
}

func (s *Store) vectorsPath() string { return filepath.Join(s.dir, "vectors.bin") }
func (s *Store) mappingPath() string { return filepath.Join(s.dir, "mapping.json") }
func (s *Store) indexPath() string   { return filepath.Join(s.dir, "index.bin") }
