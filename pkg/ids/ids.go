// Package ids implements the order-preserving identifier algebra used to
// merge product id lists from heterogeneous sources.
//
// Every function is pure and returns a fresh slice; inputs are never
// modified.
package ids

import (
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

// DedupeHits returns the ids of hits in order, keeping only the first
// occurrence of each id. Hits with an empty id are skipped.
func DedupeHits(hits []domain.SearchHit) []domain.ProductID {
	out := make([]domain.ProductID, 0, len(hits))
	seen := make(map[domain.ProductID]struct{}, len(hits))
	for _, h := range hits {
		if h.ID == "" {
			continue
		}
		if _, ok := seen[h.ID]; ok {
			continue
		}
		seen[h.ID] = struct{}{}
		out = append(out, h.ID)
	}
	return out
}

// Dedupe removes repeated ids, first occurrence wins.
func Dedupe(in []domain.ProductID) []domain.ProductID {
	out := make([]domain.ProductID, 0, len(in))
	seen := make(map[domain.ProductID]struct{}, len(in))
	for _, id := range in {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Intersect returns the ids present in both sequences, in primary order.
// A primary id that repeats is emitted once.
func Intersect(primary, secondary []domain.ProductID) []domain.ProductID {
	members := make(map[domain.ProductID]struct{}, len(secondary))
	for _, id := range secondary {
		members[id] = struct{}{}
	}

	out := make([]domain.ProductID, 0, min(len(primary), len(members)))
	emitted := make(map[domain.ProductID]struct{}, len(primary))
	for _, id := range primary {
		if _, ok := members[id]; !ok {
			continue
		}
		if _, ok := emitted[id]; ok {
			continue
		}
		emitted[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// OrderProducts reorders records to follow order. Ids without a matching
// record are skipped and records whose id is not in order are dropped.
func OrderProducts(records []domain.Product, order []domain.ProductID) []domain.Product {
	byID := make(map[domain.ProductID]int, len(records))
	for i := range records {
		if _, ok := byID[records[i].ID]; !ok {
			byID[records[i].ID] = i
		}
	}

	out := make([]domain.Product, 0, min(len(records), len(order)))
	for _, id := range order {
		if i, ok := byID[id]; ok {
			out = append(out, records[i])
		}
	}
	return out
}

// Slice returns in[offset:offset+limit], clamped to the bounds of in. It
// returns an empty slice when offset is past the end or limit is not
// positive.
func Slice(in []domain.ProductID, limit, offset int) []domain.ProductID {
	offset = max(offset, 0)
	if limit <= 0 || offset >= len(in) {
		return []domain.ProductID{}
	}
	end := min(offset+limit, len(in))
	out := make([]domain.ProductID, end-offset)
	copy(out, in[offset:end])
	return out
}
