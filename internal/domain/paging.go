package domain

// Paging is the bounded-window primitive shared by all list operations.
// Paginate=false returns every matching record.
type Paging struct {
	Page     int
	Limit    int
	Paginate bool
}

// Window clamps the request against configured defaults and returns the SQL
// limit/offset pair. all=true means no window at all.
func (p Paging) Window(defaultLimit, maxLimit int) (limit, offset int, all bool) {
	if !p.Paginate {
		return 0, 0, true
	}
	limit = p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	page := max(1, p.Page)
	return limit, (page - 1) * limit, false
}
