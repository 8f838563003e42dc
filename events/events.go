package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeSettingsUpdated   EventType = "settings_updated"
	EventTypeShortcutSet       EventType = "shortcut_set"
	EventTypeShortcutRemoved   EventType = "shortcut_removed"
	EventTypeShortcutRenamed   EventType = "shortcut_renamed"
	EventTypeShortcutMoved     EventType = "shortcut_moved"
	EventTypeShortcutsImported EventType = "shortcuts_imported"
	EventTypeShortcutsDeleted  EventType = "shortcuts_deleted"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// SettingsUpdatedEvent records a change to a guild's shortcut settings
type SettingsUpdatedEvent struct {
	GuildID  int64
	Prefix   string
	PageSize int
}

func (e SettingsUpdatedEvent) Type() EventType {
	return EventTypeSettingsUpdated
}

// ShortcutSetEvent records a shortcut create or overwrite
type ShortcutSetEvent struct {
	GuildID  int64
	Name     string
	Category string
}

func (e ShortcutSetEvent) Type() EventType {
	return EventTypeShortcutSet
}

// ShortcutRemovedEvent records a single shortcut deletion
type ShortcutRemovedEvent struct {
	GuildID int64
	Name    string
}

func (e ShortcutRemovedEvent) Type() EventType {
	return EventTypeShortcutRemoved
}

// ShortcutRenamedEvent records a shortcut rename
type ShortcutRenamedEvent struct {
	GuildID int64
	OldName string
	NewName string
}

func (e ShortcutRenamedEvent) Type() EventType {
	return EventTypeShortcutRenamed
}

// ShortcutMovedEvent records a category reassignment
type ShortcutMovedEvent struct {
	GuildID  int64
	Name     string
	Category string
}

func (e ShortcutMovedEvent) Type() EventType {
	return EventTypeShortcutMoved
}

// ShortcutsImportedEvent records the outcome of a CSV bulk import
type ShortcutsImportedEvent struct {
	GuildID  int64
	Imported int
	Skipped  int
}

func (e ShortcutsImportedEvent) Type() EventType {
	return EventTypeShortcutsImported
}

// ShortcutsDeletedEvent records a bulk deletion, by category or all
type ShortcutsDeletedEvent struct {
	GuildID  int64
	Category string // empty when the whole guild was cleared
	Deleted  int64
}

func (e ShortcutsDeletedEvent) Type() EventType {
	return EventTypeShortcutsDeleted
}

// Handler is a function that processes events
type Handler func(ctx context.Context, event Event)

// Bus is an in-process event bus for decoupled communication
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers.
// Handlers run asynchronously so emission never blocks the mutating call.
// Cache invalidation does not ride this bus; it happens inline in the
// service so its ordering against store writes stays deterministic.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}
