package store

// SeverityChange describes one mutation of an event's predicted severity,
// in the order the owning store applied it.
type SeverityChange struct {
	EventID  string
	Previous *float64 // nil when the field was previously unset
	New      float64
}

// SeverityFeed fans predicted-severity changes from both stores into the
// watcher. Publishing is non-blocking: a full buffer drops the change
// rather than stalling the store write that produced it.
type SeverityFeed struct {
	changes chan SeverityChange
	onDrop  func()
}

const defaultFeedBuffer = 256

// NewSeverityFeed creates a feed with the given buffer size (<= 0 selects
// the default). onDrop, if non-nil, is invoked for every dropped change.
func NewSeverityFeed(buffer int, onDrop func()) *SeverityFeed {
	if buffer <= 0 {
		buffer = defaultFeedBuffer
	}
	return &SeverityFeed{
		changes: make(chan SeverityChange, buffer),
		onDrop:  onDrop,
	}
}

// Publish enqueues a change for the watcher. Returns false if the buffer
// was full and the change was dropped.
func (f *SeverityFeed) Publish(change SeverityChange) bool {
	select {
	case f.changes <- change:
		return true
	default:
		if f.onDrop != nil {
			f.onDrop()
		}
		return false
	}
}

// Changes returns the consumption side of the feed. The watcher subscribes
// once at startup; the channel lives for the life of the process.
func (f *SeverityFeed) Changes() <-chan SeverityChange {
	return f.changes
}
