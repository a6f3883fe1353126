package ports

// CacheObserver receives projection cache events.
//
//go:generate mockgen -source=cache_observer.go -destination=mocks/mock_cache_observer.go -package=mocks
type CacheObserver interface {
	// ObserveHit is called when a projection is served from the cache.
	ObserveHit(changesetID, layer string)
	// ObserveMiss is called when a projection has to be computed.
	ObserveMiss(changesetID, layer string)
	// ObserveInvalidation is called when cache entries are dropped.
	// Scope is "layer", "element" or "full".
	ObserveInvalidation(changesetID, scope string)
}
