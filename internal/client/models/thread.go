package models

// MessageState tags an entry in the local thread view.
type MessageState int

const (
	// MessagePending is a locally inserted message awaiting server
	// confirmation. Identified by TempID only.
	MessagePending MessageState = iota

	// MessageConfirmed is a server-persisted message carrying the
	// server-assigned id and timestamp.
	MessageConfirmed
)

// ThreadEntry is one message in the local view of a conversation. A
// pending entry holds the optimistic content under a client-generated
// TempID; once the server confirms, the entry is replaced in place with
// the persisted record and the TempID is dropped.
type ThreadEntry struct {
	State   MessageState
	TempID  string
	Message Message
}

// Pending reports whether the entry still awaits confirmation.
func (e *ThreadEntry) Pending() bool {
	return e.State == MessagePending
}
