package store

import (
	"sync"
	"sync/atomic"

	"campusmarket/internal/domain/entity"
)

// MessagesState holds the flat recent-message list, the per-counterpart
// thread cache, the backend-aggregated conversation summaries and the
// unread counter.
type MessagesState struct {
	Items         []entity.Message
	Conversations []entity.Conversation
	Threads       map[int64][]entity.Message
	UnreadCount   int64
	Loading       bool
	Error         string

	ThreadSeq uint64
}

type MessagesAction interface{ isMessagesAction() }

type MessagesFetchStarted struct{}
type MessagesFetchSucceeded struct{ Items []entity.Message }
type MessagesFetchFailed struct{ Message string }

type ConversationsLoaded struct{ Conversations []entity.Conversation }

type ThreadFetchStarted struct{ Seq uint64 }
type ThreadFetchSucceeded struct {
	Seq    uint64
	UserID int64
	Items  []entity.Message
}
type ThreadFetchFailed struct {
	Seq     uint64
	Message string
}

// MessageSent appends the delivered message to the counterpart's thread and
// to the flat recent list.
type MessageSent struct {
	CounterpartID int64
	Message       entity.Message
}

// MessageRead flips exactly one message's read flag and decrements the
// unread counter, floored at zero. It never cascades to the rest of the
// thread.
type MessageRead struct{ ID int64 }

type UnreadCountSet struct{ Count int64 }

func (MessagesFetchStarted) isMessagesAction()   {}
func (MessagesFetchSucceeded) isMessagesAction() {}
func (MessagesFetchFailed) isMessagesAction()    {}
func (ConversationsLoaded) isMessagesAction()    {}
func (ThreadFetchStarted) isMessagesAction()     {}
func (ThreadFetchSucceeded) isMessagesAction()   {}
func (ThreadFetchFailed) isMessagesAction()      {}
func (MessageSent) isMessagesAction()            {}
func (MessageRead) isMessagesAction()            {}
func (UnreadCountSet) isMessagesAction()         {}

// ReduceMessages is the pure transition function for the messages state.
func ReduceMessages(state MessagesState, action MessagesAction) MessagesState {
	switch a := action.(type) {
	case MessagesFetchStarted:
		state.Loading = true
		state.Error = ""
	case MessagesFetchSucceeded:
		state.Loading = false
		state.Items = a.Items
	case MessagesFetchFailed:
		state.Loading = false
		state.Error = a.Message
	case ConversationsLoaded:
		state.Loading = false
		state.Error = ""
		state.Conversations = a.Conversations
	case ThreadFetchStarted:
		if a.Seq > state.ThreadSeq {
			state.ThreadSeq = a.Seq
		}
		state.Loading = true
		state.Error = ""
	case ThreadFetchSucceeded:
		if a.Seq != state.ThreadSeq {
			return state // a different conversation was selected since
		}
		state.Loading = false
		state.Threads = cloneThreads(state.Threads)
		// Replace, never merge: the backend history is authoritative.
		state.Threads[a.UserID] = a.Items
	case ThreadFetchFailed:
		if a.Seq != state.ThreadSeq {
			return state
		}
		state.Loading = false
		state.Error = a.Message
	case MessageSent:
		state.Items = prependMessage(state.Items, a.Message)
		state.Threads = cloneThreads(state.Threads)
		if thread, ok := state.Threads[a.CounterpartID]; ok {
			state.Threads[a.CounterpartID] = append(append([]entity.Message{}, thread...), a.Message)
		} else {
			state.Threads[a.CounterpartID] = []entity.Message{a.Message}
		}
	case MessageRead:
		state.Items = markRead(state.Items, a.ID)
		state.Threads = cloneThreads(state.Threads)
		for userID, thread := range state.Threads {
			state.Threads[userID] = markRead(thread, a.ID)
		}
		if state.UnreadCount > 0 {
			state.UnreadCount--
		}
	case UnreadCountSet:
		state.UnreadCount = a.Count
	}
	return state
}

func prependMessage(messages []entity.Message, message entity.Message) []entity.Message {
	result := make([]entity.Message, 0, len(messages)+1)
	result = append(result, message)
	return append(result, messages...)
}

func markRead(messages []entity.Message, id int64) []entity.Message {
	result := make([]entity.Message, len(messages))
	copy(result, messages)
	for i := range result {
		if result[i].ID == id {
			result[i].Read = true
		}
	}
	return result
}

func cloneThreads(threads map[int64][]entity.Message) map[int64][]entity.Message {
	result := make(map[int64][]entity.Message, len(threads))
	for userID, thread := range threads {
		result[userID] = thread
	}
	return result
}

// MessagesStore wraps the messages state for one browser session.
type MessagesStore struct {
	mu    sync.Mutex
	state MessagesState
	seq   atomic.Uint64
}

func NewMessagesStore() *MessagesStore {
	return &MessagesStore{state: MessagesState{Threads: map[int64][]entity.Message{}}}
}

// NextSeq issues a monotonic request tag for a thread fetch about to start.
func (s *MessagesStore) NextSeq() uint64 {
	return s.seq.Add(1)
}

func (s *MessagesStore) Dispatch(action MessagesAction) {
	s.mu.Lock()
	s.state = ReduceMessages(s.state, action)
	s.mu.Unlock()
}

func (s *MessagesStore) Snapshot() MessagesState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
