package engine

// EstimateCount reconciles a search page with the index's estimated total.
// A full page means more results probably exist, so the larger of the
// estimate and what has been observed is reported. A short page is the true
// end. The result is never below pageOffset+hitCount; near the end of a
// result set it may over-report.
func EstimateCount(pageOffset, hitCount, pageLimit, estimated int) int {
	observed := pageOffset + hitCount
	if hitCount >= pageLimit {
		return max(estimated, observed)
	}
	return observed
}

// OffsetForPage converts a 1-indexed page number to an item offset.
func OffsetForPage(page, pageSize int) int {
	return (page - 1) * pageSize
}
