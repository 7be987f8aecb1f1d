package selection

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
	"github.com/FACorreiaa/go-tripplan/internal/app/observability/metrics"
)

const (
	selectedTripKey = "tripplan.selected_trip"
	viewKey         = "tripplan.view"
)

// Store mirrors the persisted selection in memory so reads never touch the
// KV. Writes go through synchronously; callers never deal with persistence.
type Store struct {
	mu       sync.Mutex
	kv       KV
	selected *int
	view     models.View
	logger   *zap.Logger
}

// NewStore initializes the mirror from the durable KV so a reload resumes
// the previous selection and view. Unparseable stored values are discarded.
func NewStore(kv KV, logger *zap.Logger) *Store {
	s := &Store{kv: kv, view: models.ViewCreate, logger: logger}

	if raw, ok := kv.Get(selectedTripKey); ok {
		id, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warn("Discarding unparseable persisted trip selection", zap.String("value", raw))
			kv.Remove(selectedTripKey)
		} else {
			s.selected = &id
		}
	}

	if raw, ok := kv.Get(viewKey); ok {
		if models.ValidView(raw) {
			s.view = models.View(raw)
		} else {
			logger.Warn("Discarding unknown persisted view tag", zap.String("value", raw))
			kv.Remove(viewKey)
		}
	}

	return s
}

// SetSelected persists the selection, or clears the persisted key when id is nil.
func (s *Store) SetSelected(id *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == nil {
		s.selected = nil
		s.kv.Remove(selectedTripKey)
		recordSelectedTrip(0)
		return
	}
	v := *id
	s.selected = &v
	s.kv.Set(selectedTripKey, strconv.Itoa(v))
	recordSelectedTrip(int64(v))
}

// recordSelectedTrip mirrors the selection onto the gauge, 0 when cleared.
func recordSelectedTrip(id int64) {
	if m := metrics.Maybe(); m != nil {
		m.SelectedTripGauge.Record(context.Background(), id)
	}
}

// Selected returns the current selection, nil when none.
func (s *Store) Selected() *int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	v := *s.selected
	return &v
}

// SetView persists the last-chosen view tag, independent of trip selection.
func (s *Store) SetView(view models.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	s.kv.Set(viewKey, string(view))
}

// View returns the current view tag.
func (s *Store) View() models.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}
