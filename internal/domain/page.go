package domain

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NormalizePage clamps page and page size to sane values.
func NormalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Offset returns the row offset for a normalized page.
func Offset(page, pageSize int32) int32 {
	return (page - 1) * pageSize
}
