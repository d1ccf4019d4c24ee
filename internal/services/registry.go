package services

import (
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-widget/internal/widget"
	"go.uber.org/zap"
)

type registryItem struct {
	widget   *widget.Widget
	lastSeen time.Time
}

// MountedGauge receives the number of mounted widgets after every change.
type MountedGauge interface {
	SetMounted(n int)
}

// WidgetFactory mounts a fresh widget.
type WidgetFactory func() *widget.Widget

// WidgetRegistry keeps one mounted widget per browser. Widgets idle longer
// than idleTimeout are unmounted by Sweep; when maxSize is reached the least
// recently seen widget is unmounted to make room.
type WidgetRegistry struct {
	mu          sync.RWMutex
	widgets     map[string]*registryItem
	mount       WidgetFactory
	logger      *zap.Logger
	gauge       MountedGauge
	idleTimeout time.Duration
	maxSize     int
	now         func() time.Time
}

func NewWidgetRegistry(mount WidgetFactory, idleTimeout time.Duration, maxSize int, gauge MountedGauge, logger *zap.Logger) *WidgetRegistry {
	return &WidgetRegistry{
		widgets:     make(map[string]*registryItem),
		mount:       mount,
		logger:      logger,
		gauge:       gauge,
		idleTimeout: idleTimeout,
		maxSize:     maxSize,
		now:         time.Now,
	}
}

// Get returns the widget mounted under id and marks it as seen.
func (r *WidgetRegistry) Get(id string) (*widget.Widget, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.widgets[id]
	if !exists {
		return nil, false
	}

	if r.expired(item) {
		r.unmountLocked(id, "idle")
		return nil, false
	}

	item.lastSeen = r.now()
	return item.widget, true
}

// GetOrMount returns the widget for id, mounting a new one when id is unknown
// or expired. The returned widget's ID is authoritative.
func (r *WidgetRegistry) GetOrMount(id string) *widget.Widget {
	if id != "" {
		if w, ok := r.Get(id); ok {
			return w
		}
	}

	w := r.mount()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Evict if registry is full
	if r.maxSize > 0 && len(r.widgets) >= r.maxSize {
		r.evictOldestLocked()
	}

	r.widgets[w.ID] = &registryItem{widget: w, lastSeen: r.now()}
	r.publishLocked()

	r.logger.Debug("Widget mounted",
		zap.String("widget_id", w.ID),
		zap.Int("mounted", len(r.widgets)))

	return w
}

// Unmount discards the widget under id. It reports whether one was mounted.
func (r *WidgetRegistry) Unmount(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.widgets[id]; !exists {
		return false
	}
	r.unmountLocked(id, "requested")
	return true
}

// Sweep unmounts idle widgets and returns how many were removed.
func (r *WidgetRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, item := range r.widgets {
		if r.expired(item) {
			r.unmountLocked(id, "idle")
			removed++
		}
	}

	if removed > 0 {
		r.logger.Debug("Swept idle widgets",
			zap.Int("count", removed))
	}

	return removed
}

func (r *WidgetRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.widgets)
}

func (r *WidgetRegistry) GetStats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loading := 0
	for _, item := range r.widgets {
		if item.widget.Controller.State().IsLoading() {
			loading++
		}
	}

	return map[string]interface{}{
		"mounted":      len(r.widgets),
		"loading":      loading,
		"max_size":     r.maxSize,
		"idle_timeout": r.idleTimeout.String(),
	}
}

func (r *WidgetRegistry) expired(item *registryItem) bool {
	return r.idleTimeout > 0 && r.now().Sub(item.lastSeen) > r.idleTimeout
}

func (r *WidgetRegistry) evictOldestLocked() {
	var oldestID string
	var oldestTime time.Time

	for id, item := range r.widgets {
		if oldestID == "" || item.lastSeen.Before(oldestTime) {
			oldestID = id
			oldestTime = item.lastSeen
		}
	}

	if oldestID != "" {
		r.unmountLocked(oldestID, "evicted")
	}
}

func (r *WidgetRegistry) unmountLocked(id, reason string) {
	delete(r.widgets, id)
	r.publishLocked()
	r.logger.Debug("Widget unmounted",
		zap.String("widget_id", id),
		zap.String("reason", reason))
}

func (r *WidgetRegistry) publishLocked() {
	if r.gauge != nil {
		r.gauge.SetMounted(len(r.widgets))
	}
}
