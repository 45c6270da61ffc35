package motor

import "github.com/pb33f/harview/motor/model"

// FilterStore holds the user's custom filters. Implementations must be safe for
// concurrent use and hand out copies, never references into their own state.
type FilterStore interface {
	// Add validates and stores a new filter, assigning its ID and CreatedAt
	Add(input FilterInput) (model.CustomFilter, error)

	// Update replaces the supplied fields of an existing filter
	Update(id string, update FilterUpdate) (model.CustomFilter, error)

	// Delete removes a filter, its ID is never handed out again
	Delete(id string) error

	// Reorder moves the filter at position from to position to
	Reorder(from, to int) error

	// Get returns a filter by ID
	Get(id string) (model.CustomFilter, bool)

	// List returns a snapshot of every filter, in display order
	List() []model.CustomFilter
}
