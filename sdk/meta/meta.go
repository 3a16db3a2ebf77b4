package meta

// ListMeta is metadata for ordered collections of resources.
type ListMeta struct {
	// Continue, when non-empty is an opaque value created by and understood by an
	// API operation that returns partial (pageable) results. Submitting this
	// value with subsequent requests to the same operation specifies to that
	// operation which page to return next.
	Continue string `json:"continue,omitempty"`
	// RemainingItemCount, when non-zero indicates that an API operation
	// returned partial (pageable) results and indicates how many results remain.
	RemainingItemCount int64 `json:"remainingItemCount,omitempty"`
}

// ListOptions represents useful options for API operations that return
// pageable results.
type ListOptions struct {
	// Continue, when non-empty is the opaque value handed back by a previous
	// call to the same operation and selects the next page.
	Continue string
	// Limit, when non-zero bounds the number of results in a page.
	Limit int64
}
