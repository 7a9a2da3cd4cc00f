package watcher

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type debouncer struct {
	delay   time.Duration
	events  map[string]FileChangeEvent
	timer   *time.Timer
	mutex   sync.Mutex
	stopped bool
	log     zerolog.Logger
}

func newDebouncer(delay time.Duration, log zerolog.Logger) *debouncer {
	return &debouncer{
		delay:  delay,
		events: make(map[string]FileChangeEvent),
		log:    log,
	}
}

func (d *debouncer) add(event FileChangeEvent, handler FileChangeHandler) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.stopped {
		return
	}
	d.events[event.Path] = event
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.flush(handler)
	})
}

// flush hands the pending paths, sorted, to handler. The lock is released
// before the handler runs so that new events can queue meanwhile.
func (d *debouncer) flush(handler FileChangeHandler) {
	d.mutex.Lock()
	if len(d.events) == 0 || d.stopped {
		d.mutex.Unlock()
		return
	}
	changedFiles := make([]string, 0, len(d.events))
	for path := range d.events {
		changedFiles = append(changedFiles, path)
	}
	d.events = make(map[string]FileChangeEvent)
	d.mutex.Unlock()

	sort.Strings(changedFiles)
	if err := handler(changedFiles); err != nil {
		d.log.Error().Err(err).Strs("files", changedFiles).Msg("change handler failed")
	}
}

func (d *debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
}
