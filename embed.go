package delta

import (
	"fmt"
	"sync"
)

// EmbedHandler defines the embedder-supplied algebra for a single embed
// type. Implementations must be pure and reentrant.
type EmbedHandler interface {
	// keepNull is true when a is a retain rather than a fresh insert.
	Compose(a, b interface{}, keepNull bool) interface{}

	Invert(a, base interface{}) interface{}

	// priority is true when a is considered to have happened first.
	Transform(a, b interface{}, priority bool) interface{}
}

type registry struct {
	mu       sync.RWMutex
	handlers map[string]EmbedHandler
}

var defaultRegistry = &registry{handlers: make(map[string]EmbedHandler)}

// RegisterEmbed installs handler for embedType, process-wide, replacing
// any existing registration for that type.
func RegisterEmbed(embedType string, handler EmbedHandler) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.handlers[embedType] = handler
}

// UnregisterEmbed removes the handler for embedType, if any.
func UnregisterEmbed(embedType string) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	delete(defaultRegistry.handlers, embedType)
}

func getEmbedHandler(embedType string) (EmbedHandler, error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	h, ok := defaultRegistry.handlers[embedType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEmbedType, embedType)
	}
	return h, nil
}

// lookupEmbedHandler is the non-failing variant: transform treats an
// unregistered embed type as a fall-through, not an error.
func lookupEmbedHandler(embedType string) (EmbedHandler, bool) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	h, ok := defaultRegistry.handlers[embedType]
	return h, ok
}
