package resource

// Handle is an opaque reference to a tracked native object.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Kind identifies what sort of native object a handle tracks.
type Kind uint8

const (
	KindConfig Kind = iota + 1
	KindSpeller
	KindCanHaveError
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindSpeller:
		return "speller"
	case KindCanHaveError:
		return "can_have_error"
	default:
		return "unknown"
	}
}

// Event types for lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventReleased
	EventBorrowed
	EventBorrowReturned
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventReleased:
		return "released"
	case EventBorrowed:
		return "borrowed"
	case EventBorrowReturned:
		return "borrow_returned"
	default:
		return "unknown"
	}
}

// Event represents a lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	Kind   Kind
	Type   EventType
}

// Observer receives notifications about lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Releaser is implemented by values that destroy a native object.
type Releaser interface {
	Release()
}

// ReleaseFunc adapts a function to the Releaser interface.
type ReleaseFunc func()

func (f ReleaseFunc) Release() { f() }
