package domain

import "context"

// Lookup is the outcome of a single detail request.
// A negative answer from the API ("Movie not found!") is a valid result,
// not an error: Found is false and Reason carries the API message.
type Lookup struct {
	Record Record
	Found  bool
	Reason string
}

// SearchResult is the outcome of a free-text search.
type SearchResult struct {
	Matches []MatchStub
	Total   int
	Found   bool
	Reason  string
}

// MetadataRepository: Network operations against the metadata API
// (implemented by the omdb client)
type MetadataRepository interface {
	// LookupID fetches full detail for one identifier
	LookupID(ctx context.Context, id string) (Lookup, error)

	// LookupTitle fetches full detail for the best title match
	LookupTitle(ctx context.Context, title string) (Lookup, error)

	// Search returns lightweight matches for a free-text query
	Search(ctx context.Context, query string) (SearchResult, error)
}
