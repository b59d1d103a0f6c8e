package leaderboard

import "errors"

// ErrNoNextResult is returned by NextQuery when the result has no more pages.
var ErrNoNextResult = errors.New("leaderboard: no next result")

// SortOrder is the row ordering of a leaderboard query.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// Query describes one page of a leaderboard request.
type Query struct {
	StatName          string
	MaxItems          uint32
	SkipResultToMe    bool
	SkipResultToRank  uint32
	Order             SortOrder
	ContinuationToken string
}

// Row is a single leaderboard entry.
type Row struct {
	Gamertag   string   `json:"gamertag"`
	XUID       string   `json:"xuid"`
	Rank       uint32   `json:"rank"`
	Percentile float64  `json:"percentile"`
	Values     []string `json:"values"`
}

// Result is one page of leaderboard rows plus the continuation state
// needed to fetch the next page.
type Result struct {
	TotalRowCount     uint32
	Rows              []Row
	Query             Query
	ContinuationToken string
}

// HasNext reports whether another page can be fetched.
func (r *Result) HasNext() bool {
	return r.ContinuationToken != ""
}

// NextQuery returns the query for the next page.
func (r *Result) NextQuery() (Query, error) {
	if !r.HasNext() {
		return Query{}, ErrNoNextResult
	}
	next := r.Query
	next.ContinuationToken = r.ContinuationToken
	// Skip behavior only applies to the first page.
	next.SkipResultToMe = false
	next.SkipResultToRank = 0
	return next, nil
}
