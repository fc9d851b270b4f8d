package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
	"github.com/IamTkle/capstone1-dashboard/internal/metrics"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrStaleLayer      = errors.New("layer is not part of the current render pass")
	ErrNotPickable     = errors.New("layer is not pickable")
)

// Session is the host-side state of one map view
type Session struct {
	ID         string             `json:"id"`
	Params     domain.LayerParams `json:"params"`
	Selected   *domain.Region     `json:"selected,omitempty"`
	DetailOpen bool               `json:"detailOpen"`
	Tooltip    Tooltip            `json:"tooltip"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// PointerEvent is a pick or hover reported by the renderer.
// An empty RegionID means the pointer is over nothing.
type PointerEvent struct {
	LayerID  string  `json:"layerId"`
	RegionID string  `json:"regionId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// MapService hosts map sessions on top of the layer engine
type MapService struct {
	data     *MapData
	engine   *LayerEngine
	repo     DataRepository
	defaults domain.LayerParams

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewMapService creates a new map service
func NewMapService(data *MapData, repo DataRepository, defaults domain.LayerParams) *MapService {
	return &MapService{
		data:     data,
		engine:   NewLayerEngine(data),
		repo:     repo,
		defaults: defaults,
		sessions: make(map[string]*Session),
	}
}

// Data returns the loaded map data
func (s *MapService) Data() *MapData { return s.data }

// Defaults returns the parameters new sessions start with
func (s *MapService) Defaults() domain.LayerParams { return s.defaults }

// Health checks the dataset source
func (s *MapService) Health(ctx context.Context) error {
	return s.repo.Health(ctx)
}

// Render builds a layer list without interaction bindings
func (s *MapService) Render(p domain.LayerParams) ([]domain.Layer, error) {
	return s.engine.Layers(p, nil)
}

// Minimap builds the overview layers for time t without interaction bindings
func (s *MapService) Minimap(t domain.TimeIndex) ([]domain.Layer, error) {
	return s.engine.Minimap(t, nil)
}

// Region returns region detail by id
func (s *MapService) Region(id string) (*domain.Region, error) {
	return s.data.Regions.Region(id)
}

// CreateSession opens a session with the default parameters
func (s *MapService) CreateSession() Session {
	sess := &Session{
		ID:        uuid.NewString(),
		Params:    s.defaults,
		UpdatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SessionsActive.Set(float64(n))
	return *sess
}

// Session returns a copy of the session state
func (s *MapService) Session(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return *sess, nil
}

// CloseSession discards a session
func (s *MapService) CloseSession(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	metrics.SessionsActive.Set(float64(n))
	return nil
}

// UpdateParams replaces the session parameters after checking they render
func (s *MapService) UpdateParams(id string, p domain.LayerParams) (Session, error) {
	if _, err := s.engine.Layers(p, nil); err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	sess.Params = p
	sess.Tooltip = Tooltip{}
	sess.UpdatedAt = time.Now()
	return *sess, nil
}

// SessionLayers builds the session's current layer list with interactions bound to it
func (s *MapService) SessionLayers(id string) ([]domain.Layer, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	return s.engine.Layers(sess.Params, s.dispatcher(id))
}

// SessionMinimap builds the overview layers for the session's time index
func (s *MapService) SessionMinimap(id string) ([]domain.Layer, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	return s.engine.Minimap(sess.Params.Time, s.dispatcher(id))
}

// ExpireSessions closes sessions not updated since cutoff and returns how many were removed
func (s *MapService) ExpireSessions(cutoff time.Time) int {
	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SessionsActive.Set(float64(n))
	return removed
}

// RunExpiry closes sessions idle for longer than maxIdle, checking every interval until ctx is done
func (s *MapService) RunExpiry(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.ExpireSessions(now.Add(-maxIdle)); n > 0 {
				log.Printf("Expired %d idle sessions", n)
			}
		}
	}
}

// Pick routes a click through the layer's click binding
func (s *MapService) Pick(id string, ev PointerEvent) error {
	return s.route(id, ev, func(l *domain.Layer) func(domain.PickInfo) { return l.OnClick })
}

// Hover routes a pointer move through the layer's hover binding
func (s *MapService) Hover(id string, ev PointerEvent) error {
	return s.route(id, ev, func(l *domain.Layer) func(domain.PickInfo) { return l.OnHover })
}

// ClearSelection closes the detail panel
func (s *MapService) ClearSelection(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	sess.Selected = nil
	sess.DetailOpen = false
	sess.UpdatedAt = time.Now()
	return *sess, nil
}

func (s *MapService) route(id string, ev PointerEvent, binding func(*domain.Layer) func(domain.PickInfo)) error {
	layers, err := s.SessionLayers(id)
	if err != nil {
		return err
	}
	minimap, err := s.SessionMinimap(id)
	if err != nil {
		return err
	}
	layers = append(layers, minimap...)

	var layer *domain.Layer
	for i := range layers {
		if layers[i].ID == ev.LayerID {
			layer = &layers[i]
			break
		}
	}
	if layer == nil {
		return fmt.Errorf("%w: %q", ErrStaleLayer, ev.LayerID)
	}
	if !layer.Pickable {
		return fmt.Errorf("%w: %q", ErrNotPickable, ev.LayerID)
	}

	info := domain.PickInfo{X: ev.X, Y: ev.Y}
	if ev.RegionID != "" {
		if info.Region, err = s.data.Regions.Region(ev.RegionID); err != nil {
			return err
		}
	}

	// overlays are pickable for highlighting but carry no region bindings
	if handler := binding(layer); handler != nil {
		handler(info)
	}
	return nil
}

func (s *MapService) dispatcher(id string) *Dispatcher {
	return NewDispatcher(&sessionHost{svc: s, id: id}, s.engine.Metrics())
}

// sessionHost applies dispatcher side effects to one session
type sessionHost struct {
	svc *MapService
	id  string
}

func (h *sessionHost) update(fn func(*Session)) {
	h.svc.mu.Lock()
	defer h.svc.mu.Unlock()
	if sess, ok := h.svc.sessions[h.id]; ok {
		fn(sess)
		sess.UpdatedAt = time.Now()
	}
}

func (h *sessionHost) SelectRegion(r domain.Region) {
	h.update(func(sess *Session) {
		sess.Selected = &r
		sess.DetailOpen = true
	})
}

func (h *sessionHost) ShowTooltip(t Tooltip) {
	h.update(func(sess *Session) { sess.Tooltip = t })
}

func (h *sessionHost) HideTooltip() {
	h.update(func(sess *Session) { sess.Tooltip = Tooltip{} })
}
