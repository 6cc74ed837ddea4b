package sync

// EventType is the kind of sync status notification.
type EventType string

const (
	EventDownloadStarted   EventType = "download_started"
	EventDownloadProgress  EventType = "download_progress"
	EventDownloadCompleted EventType = "download_completed"
	EventDownloadFailed    EventType = "download_failed"
	EventDrainProgress     EventType = "drain_progress"
	EventDrainCompleted    EventType = "drain_completed"
)

// Event is a sync status notification delivered to observers.
type Event struct {
	Err     error     // Err причина download_failed
	Type    EventType // Type тип события
	Percent int       // Percent прогресс загрузки: 0, 50, 100
	Index   int       // Index номер обработанной операции (с 1)
	Synced  int
	Failed  int
	Total   int
}

// Subscribe registers an observer and returns a function removing it.
// Observers run synchronously on the goroutine running the protocol.
func (e *engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.observersMu.Lock()
	id := e.nextObserver
	e.nextObserver++
	e.observers[id] = fn
	e.observersMu.Unlock()

	return func() {
		e.observersMu.Lock()
		delete(e.observers, id)
		e.observersMu.Unlock()
	}
}

func (e *engine) emit(ev Event) {
	e.observersMu.RLock()
	observers := make([]func(Event), 0, len(e.observers))
	for _, fn := range e.observers {
		observers = append(observers, fn)
	}
	e.observersMu.RUnlock()

	for _, fn := range observers {
		fn(ev)
	}
}
