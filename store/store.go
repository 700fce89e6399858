package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/grid"
	"github.com/arloliu/gridcodec/index"
	"github.com/arloliu/gridcodec/internal/logging"
	"github.com/arloliu/gridcodec/internal/metrics"
	"github.com/arloliu/gridcodec/internal/options"
	"github.com/arloliu/gridcodec/structure"
	"github.com/arloliu/gridcodec/timeseries"
)

// State is the lifecycle stage of a Store.
type State uint8

const (
	Empty       State = iota // no mask yet
	MaskReady                // mask set, no layers
	LayersReady              // mask and at least one layer
	Persisted                // in-memory contents equal the last commit or read
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case MaskReady:
		return "mask-ready"
	case LayersReady:
		return "layers-ready"
	case Persisted:
		return "persisted"
	default:
		return "unknown"
	}
}

// Store keeps a mask, its active-cell index and the layers written against it
// consistent, and persists them through a Backend.
//
// Mutating methods and Write must not run concurrently with each other. Read
// accessors are safe to call concurrently once the store is Persisted.
type Store struct {
	mu sync.RWMutex

	backend Backend
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	order   format.TraversalOrder
	engine  endian.EndianEngine
	names   ArtifactNames

	state        State
	mask         *grid.Mask
	index        *index.ActiveCellIndex
	indexRev     uint64
	persistedRev uint64
	layers       map[string]*grid.Layer
	structures   map[format.StructureKind][]structure.Structure
	forcing      map[string]*timeseries.Set
	observations []timeseries.Location
	manifest     *Manifest
}

// New creates an empty store on backend.
func New(backend Backend, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, errors.New("store: nil backend")
	}

	s := &Store{
		backend:    backend,
		log:        logging.Discard(),
		order:      format.RowMajor,
		engine:     endian.GetLittleEndianEngine(),
		names:      DefaultArtifactNames(),
		layers:     make(map[string]*grid.Layer),
		structures: make(map[format.StructureKind][]structure.Structure),
		forcing:    make(map[string]*timeseries.Set),
	}

	if err := options.Apply(s, opts...); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	return s, nil
}

// State returns the current lifecycle state. A Persisted store whose mask was
// edited after the last Write or Read reports the unpersisted state again.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == Persisted && s.mask.Revision() != s.persistedRev {
		return s.draftState()
	}

	return s.state
}

// Names returns the artifact names in use.
func (s *Store) Names() ArtifactNames {
	return s.names
}

// SetMask installs mask. Later edits to mask are detected through its revision
// and cause the index to be rebuilt on the next Write.
//
// Returns ErrShapeMismatch if registered layers have a different shape.
func (s *Store) SetMask(mask *grid.Mask) error {
	if mask == nil {
		return errors.New("store: nil mask")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for name, l := range s.layers {
		if l.Shape() != mask.Shape() {
			return fmt.Errorf("%w: layer %s is %s, mask is %s", errs.ErrShapeMismatch, name, l.Shape(), mask.Shape())
		}
	}

	s.mask = mask
	s.index = nil
	s.touch()

	return nil
}

// RegisterLayer adds or replaces a named layer. The mask must be set first.
func (s *Store) RegisterLayer(name string, layer *grid.Layer) error {
	if name == "" || layer == nil {
		return errors.New("store: layer needs a name and data")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mask == nil {
		return fmt.Errorf("%w: register layer %s before a mask is set", errs.ErrInvalidState, name)
	}

	if layer.Shape() != s.mask.Shape() {
		return fmt.Errorf("%w: layer %s is %s, mask is %s", errs.ErrShapeMismatch, name, layer.Shape(), s.mask.Shape())
	}

	if _, err := encodingWidth(layer.Kind()); err != nil {
		return fmt.Errorf("layer %s: %w", name, err)
	}

	s.layers[name] = layer
	s.touch()

	return nil
}

// RemoveLayer drops a registered layer.
func (s *Store) RemoveLayer(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.layers[name]; !ok {
		return fmt.Errorf("%w: %s", errs.ErrUnknownLayer, name)
	}
	delete(s.layers, name)
	s.touch()

	return nil
}

// Layer returns a registered or hydrated layer.
func (s *Store) Layer(name string) (*grid.Layer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.layers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownLayer, name)
	}

	return l, nil
}

// LayerNames returns the layer names in sorted order.
func (s *Store) LayerNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedKeys(s.layers)
}

// Mask returns the current mask, or nil in the Empty state.
func (s *Store) Mask() *grid.Mask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.mask
}

// Index returns the active-cell index of the current mask, building it if it is
// missing or stale.
func (s *Store) Index() (*index.ActiveCellIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentIndex()
}

// Manifest returns the manifest of the last Write or Read, or nil.
func (s *Store) Manifest() *Manifest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.manifest
}

// SetStructures replaces the structures of one kind. An empty slice removes them.
func (s *Store) SetStructures(kind format.StructureKind, structures []structure.Structure) error {
	if !kind.IsValid() {
		return fmt.Errorf("store: unknown structure kind %d", kind)
	}

	for i, st := range structures {
		if err := st.Validate(kind); err != nil {
			return fmt.Errorf("%s %d: %w", kind, i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(structures) == 0 {
		delete(s.structures, kind)
	} else {
		s.structures[kind] = slices.Clone(structures)
	}
	s.touch()

	return nil
}

// Structures returns the structures of one kind.
func (s *Store) Structures(kind format.StructureKind) []structure.Structure {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.structures[kind]
}

// SetForcing replaces a named forcing set. A nil set removes it.
func (s *Store) SetForcing(name string, set *timeseries.Set) error {
	if err := validateName(name); err != nil {
		return fmt.Errorf("store: forcing: %w", err)
	}

	if set != nil {
		if err := set.Validate(); err != nil {
			return fmt.Errorf("forcing %s: %w", name, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if set == nil {
		delete(s.forcing, name)
	} else {
		s.forcing[name] = set
	}
	s.touch()

	return nil
}

// Forcing returns a named forcing set.
func (s *Store) Forcing(name string) (*timeseries.Set, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.forcing[name]

	return set, ok
}

// ForcingNames returns the forcing set names in sorted order.
func (s *Store) ForcingNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedKeys(s.forcing)
}

// SetObservations replaces the observation points. An empty slice removes them.
func (s *Store) SetObservations(locations []timeseries.Location) error {
	seen := make(map[string]bool, len(locations))
	for i, loc := range locations {
		if err := loc.Validate(); err != nil {
			return fmt.Errorf("observation %d: %w", i, err)
		}

		if loc.Name != "" && seen[loc.Name] {
			return fmt.Errorf("store: observation %s listed twice", loc.Name)
		}
		seen[loc.Name] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.observations = slices.Clone(locations)
	if len(s.observations) == 0 {
		s.observations = nil
	}
	s.touch()

	return nil
}

// Observations returns the observation points in file order.
func (s *Store) Observations() []timeseries.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.observations
}

// touch recomputes the state after a change that makes the store differ from
// its last commit. s.mu must be held.
func (s *Store) touch() {
	s.state = s.draftState()
}

// markPersisted records that the in-memory contents equal the backend. s.mu
// must be held.
func (s *Store) markPersisted() {
	s.state = Persisted
	s.persistedRev = s.mask.Revision()
}

func (s *Store) draftState() State {
	switch {
	case s.mask == nil:
		return Empty
	case len(s.layers) == 0:
		return MaskReady
	default:
		return LayersReady
	}
}

// currentIndex returns the index for the current mask revision. s.mu must be held.
func (s *Store) currentIndex() (*index.ActiveCellIndex, error) {
	if s.mask == nil {
		return nil, fmt.Errorf("%w: no mask", errs.ErrInvalidState)
	}

	if s.index != nil && s.indexRev == s.mask.Revision() {
		return s.index, nil
	}

	if s.index != nil {
		s.log.WithFields(logrus.Fields{
			"index_revision": s.indexRev,
			"mask_revision":  s.mask.Revision(),
		}).Info("mask changed since the index was built, rebuilding")
		s.metrics.StaleRebuild()
	}

	idx, err := index.Build(s.mask, s.order)
	if err != nil {
		return nil, err
	}

	s.index = idx
	s.indexRev = s.mask.Revision()
	s.metrics.SetActiveCells(idx.Len())

	return idx, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

func encodingWidth(kind format.DataKind) (int, error) {
	if w := kind.Width(); w > 0 {
		return w, nil
	}

	return 0, fmt.Errorf("%w: %d", errs.ErrUnsupportedDataKind, kind)
}
