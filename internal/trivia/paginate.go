package trivia

import "strconv"

// Paginate returns the 1-based page of items, at most pageSize long, in the
// input order. Pages below 1 are treated as page 1 and a non-positive
// pageSize falls back to QuestionsPerPage. A page past the end is empty.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = QuestionsPerPage
	}
	pages := (len(items) + pageSize - 1) / pageSize
	if page > pages {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	return items[start:end:end]
}

// ParsePage reads a ?page= value; absent, non-numeric or < 1 gives 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
