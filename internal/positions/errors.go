package positions

import "errors"

// ErrNoListings is returned by ScrapeAll when no listing on the index pages
// falls within the recency window.
var ErrNoListings = errors.New("no recent listings found")
