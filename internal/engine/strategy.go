package engine

import (
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

// SelectStrategy picks the upstream sources for a request. Category,
// collection and price filters never influence the choice; they are always
// forwarded to the catalog.
//
//	query  sizes  strategy
//	yes    yes    MEILI_SIZE_INTERSECTION
//	yes    no     MEILI_ONLY
//	no     yes    SIZE_ONLY_FALLBACK
//	no     no     DEFAULT_MEDUSA
func SelectStrategy(f domain.Filters) domain.Strategy {
	switch {
	case f.HasQuery() && f.HasSizes():
		return domain.StrategyMeiliSizeIntersection
	case f.HasQuery():
		return domain.StrategyMeiliOnly
	case f.HasSizes():
		return domain.StrategySizeOnlyFallback
	default:
		return domain.StrategyDefaultMedusa
	}
}
