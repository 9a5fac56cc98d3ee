package store

import (
	"sync"
	"sync/atomic"

	"campusmarket/internal/domain/entity"
)

// ListingsState caches the listing collections keyed by usage: the browse
// feed, the single-detail view, and the current user's own listings. Items
// and UserListings may overlap; updates and deletes must hit both or the
// caches diverge.
type ListingsState struct {
	Items          []entity.Listing
	CurrentListing *entity.Listing
	UserListings   []entity.Listing
	TotalElements  int64
	Loading        bool
	Error          string

	// Latest issued fetch sequence per collection. Results tagged with an
	// older sequence lost the race to a newer request and are discarded.
	BrowseSeq uint64
	OwnSeq    uint64
}

type ListingsAction interface{ isListingsAction() }

type BrowseFetchStarted struct{ Seq uint64 }
type BrowseFetchSucceeded struct {
	Seq           uint64
	Items         []entity.Listing
	TotalElements int64
}
type BrowseFetchFailed struct {
	Seq     uint64
	Message string
}

type OwnFetchStarted struct{ Seq uint64 }
type OwnFetchSucceeded struct {
	Seq   uint64
	Items []entity.Listing
}
type OwnFetchFailed struct {
	Seq     uint64
	Message string
}

type DetailLoaded struct{ Listing entity.Listing }
type DetailCleared struct{}

type ListingCreated struct{ Listing entity.Listing }
type ListingUpdated struct{ Listing entity.Listing }
type ListingDeleted struct{ ID int64 }

func (BrowseFetchStarted) isListingsAction()   {}
func (BrowseFetchSucceeded) isListingsAction() {}
func (BrowseFetchFailed) isListingsAction()    {}
func (OwnFetchStarted) isListingsAction()      {}
func (OwnFetchSucceeded) isListingsAction()    {}
func (OwnFetchFailed) isListingsAction()       {}
func (DetailLoaded) isListingsAction()         {}
func (DetailCleared) isListingsAction()        {}
func (ListingCreated) isListingsAction()       {}
func (ListingUpdated) isListingsAction()       {}
func (ListingDeleted) isListingsAction()       {}

// ReduceListings is the pure transition function for the listings state.
func ReduceListings(state ListingsState, action ListingsAction) ListingsState {
	switch a := action.(type) {
	case BrowseFetchStarted:
		if a.Seq > state.BrowseSeq {
			state.BrowseSeq = a.Seq
		}
		state.Loading = true
		state.Error = ""
	case BrowseFetchSucceeded:
		if a.Seq != state.BrowseSeq {
			return state // stale response, a newer request is in flight
		}
		state.Loading = false
		state.Items = a.Items
		state.TotalElements = a.TotalElements
	case BrowseFetchFailed:
		if a.Seq != state.BrowseSeq {
			return state
		}
		// Stale-but-available beats empty: the previous collection stays.
		state.Loading = false
		state.Error = a.Message
	case OwnFetchStarted:
		if a.Seq > state.OwnSeq {
			state.OwnSeq = a.Seq
		}
		state.Loading = true
		state.Error = ""
	case OwnFetchSucceeded:
		if a.Seq != state.OwnSeq {
			return state
		}
		state.Loading = false
		state.UserListings = a.Items
	case OwnFetchFailed:
		if a.Seq != state.OwnSeq {
			return state
		}
		state.Loading = false
		state.Error = a.Message
	case DetailLoaded:
		listing := a.Listing
		state.CurrentListing = &listing
		state.Loading = false
		state.Error = ""
	case DetailCleared:
		state.CurrentListing = nil
	case ListingCreated:
		// Optimistic prepend: the creator sees the new listing first in
		// both the browse feed and their own listings without a re-fetch.
		state.Loading = false
		state.Items = prepend(state.Items, a.Listing)
		state.UserListings = prepend(state.UserListings, a.Listing)
	case ListingUpdated:
		state.Loading = false
		state.Items = replaceByID(state.Items, a.Listing)
		state.UserListings = replaceByID(state.UserListings, a.Listing)
		if state.CurrentListing != nil && state.CurrentListing.ID == a.Listing.ID {
			listing := a.Listing
			state.CurrentListing = &listing
		}
	case ListingDeleted:
		state.Loading = false
		state.Items = removeByID(state.Items, a.ID)
		state.UserListings = removeByID(state.UserListings, a.ID)
		if state.CurrentListing != nil && state.CurrentListing.ID == a.ID {
			state.CurrentListing = nil
		}
	}
	return state
}

func prepend(listings []entity.Listing, listing entity.Listing) []entity.Listing {
	result := make([]entity.Listing, 0, len(listings)+1)
	result = append(result, listing)
	return append(result, listings...)
}

func replaceByID(listings []entity.Listing, listing entity.Listing) []entity.Listing {
	result := make([]entity.Listing, len(listings))
	copy(result, listings)
	for i := range result {
		if result[i].ID == listing.ID {
			result[i] = listing
		}
	}
	return result
}

func removeByID(listings []entity.Listing, id int64) []entity.Listing {
	result := make([]entity.Listing, 0, len(listings))
	for _, l := range listings {
		if l.ID != id {
			result = append(result, l)
		}
	}
	return result
}

// ListingsStore wraps the listings state for one browser session.
type ListingsStore struct {
	mu    sync.Mutex
	state ListingsState
	seq   atomic.Uint64
}

func NewListingsStore() *ListingsStore {
	return &ListingsStore{}
}

// NextSeq issues a monotonic request tag for a fetch about to start.
func (s *ListingsStore) NextSeq() uint64 {
	return s.seq.Add(1)
}

func (s *ListingsStore) Dispatch(action ListingsAction) {
	s.mu.Lock()
	s.state = ReduceListings(s.state, action)
	s.mu.Unlock()
}

func (s *ListingsStore) Snapshot() ListingsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
