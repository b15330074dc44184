package catalog

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 500 * time.Millisecond

// Watch reloads the cache when the directory changes and, when interval > 0,
// on a fixed schedule as well. It blocks until ctx is done. fsnotify only
// works on the OS filesystem; when the watcher cannot be set up Watch falls
// back to the ticker alone.
func (c *Cache) Watch(ctx context.Context, interval time.Duration) error {
	var events <-chan fsnotify.Event
	var errs <-chan error

	w, err := fsnotify.NewWatcher()
	if err == nil {
		if err = w.Add(c.dir); err == nil {
			defer w.Close()
			events, errs = w.Events, w.Errors
		} else {
			_ = w.Close()
		}
	}
	if err != nil {
		c.log.Warn().Err(err).Str("dir", c.dir).Msg("catalog watcher unavailable; using refresh interval only")
		if interval <= 0 {
			<-ctx.Done()
			return nil
		}
	}

	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}

	// A save usually fires several events; collapse them.
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	reload := func(reason string) {
		if _, err := c.Load(ctx); err != nil && ctx.Err() == nil {
			c.log.Error().Err(err).Str("reason", reason).Msg("catalog reload failed")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				timer.Reset(debounce)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			c.log.Warn().Err(err).Msg("catalog watcher error")
		case <-timer.C:
			reload("fsnotify")
		case <-tick:
			reload("interval")
		}
	}
}
