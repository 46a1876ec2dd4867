package convert

import (
	"reflect"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event names migration progress notification.
type Event string

const (
	EventRunStarted              Event = "runStarted"
	EventFolderStarted           Event = "folderStarted"
	EventFolderCompleted         Event = "folderCompleted"
	EventFileStarted             Event = "fileStarted"
	EventFileNoElements          Event = "fileNoElements"
	EventFilePreparationProgress Event = "filePreparationProgress"
	EventFileMigrationProgress   Event = "fileMigrationProgress"
	EventFileCompleted           Event = "fileCompleted"
	EventFileFailed              Event = "fileFailed"
	EventFileIgnored             Event = "fileIgnored"
	EventRunCompleted            Event = "runCompleted"
)

// EventData is payload of a notification, only fields relevant to the event
// are set.
type EventData struct {
	// ID is source path of file or folder, for run events it is run
	// identifier.
	ID         string
	RunID      string
	FileName   string
	FolderName string
	// Output is destination path of migrated file.
	Output string

	Percentage        int
	ProcessedElements int
	TotalElements     int

	Converted int
	Skipped   int
	Reason    string
	Err       error
	Elapsed   time.Duration
}

// Observer receives migration notifications. Notifications are delivered
// synchronously and never concurrently.
type Observer interface {
	Update(event Event, data EventData)
}

// ObserverFunc adapts ordinary function to Observer.
type ObserverFunc func(Event, EventData)

func (f ObserverFunc) Update(event Event, data EventData) {
	f(event, data)
}

// Subject keeps list of observers and delivers notifications to them.
// Delivery is best effort: observer panics are logged and do not affect
// migration.
type Subject struct {
	mu        sync.Mutex
	observers []Observer
	log       *zap.Logger
}

func NewSubject(log *zap.Logger) *Subject {
	if log == nil {
		log = zap.NewNop()
	}
	return &Subject{log: log}
}

func (s *Subject) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// RemoveObserver detaches observer added earlier. Observers of not
// comparable types (ObserverFunc) cannot be removed.
func (s *Subject) RemoveObserver(o Observer) {
	if o == nil || !reflect.TypeOf(o).Comparable() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.observers, func(x Observer) bool {
		return reflect.TypeOf(x) == reflect.TypeOf(o) && x == o
	})
	if i >= 0 {
		s.observers = slices.Delete(s.observers, i, i+1)
	}
}

func (s *Subject) notify(event Event, data EventData) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.observers {
		s.deliver(o, event, data)
	}
}

func (s *Subject) deliver(o Observer, event Event, data EventData) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Observer failed", zap.String("event", string(event)), zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
		}
	}()
	o.Update(event, data)
}
