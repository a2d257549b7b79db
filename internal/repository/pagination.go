package repository

// DefaultLimit bounds list queries when the caller sends no window.
const DefaultLimit = 50

// Page is a limit/offset window for listing matches, teams, and the like.
// Filtering stays out of it; callers that need more build their own queries.
type Page struct {
	Limit  int
	Offset int
}

// Normalized clamps the window so SQL never sees a non-positive limit or a
// negative offset.
func (p Page) Normalized() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResult carries one window of items plus the total row count, so a
// scoreboard client can render page controls without a second round trip.
type PageResult[T any] struct {
	Items []T
	Total int
}
