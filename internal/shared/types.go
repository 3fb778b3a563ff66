package shared

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination là page/limit đã chuẩn hoá từ query string
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination clamp page >= 1 và 1 <= limit <= MaxPageLimit
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
