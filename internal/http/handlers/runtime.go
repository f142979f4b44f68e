package handlers

import (
	"sync"
	"time"

	"busbackend/internal/events"
)

// Runtime carries the settings handlers need besides the database.
type Runtime struct {
	Secret   []byte
	TokenTTL time.Duration
	Location *time.Location
	Events   events.Publisher
}

var (
	runtimeMu sync.RWMutex
	runtime   = Runtime{Location: time.UTC, Events: events.NopPublisher{}}
)

// Configure installs the runtime settings; NewRouter calls it once.
func Configure(rt Runtime) {
	if rt.Location == nil {
		rt.Location = time.UTC
	}
	if rt.Events == nil {
		rt.Events = events.NopPublisher{}
	}
	runtimeMu.Lock()
	runtime = rt
	runtimeMu.Unlock()
}

func current() Runtime {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	return runtime
}
