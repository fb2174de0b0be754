package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether the search index is queryable.
type IndexChecker interface {
	IndexReady(ctx context.Context) error
}
