// Package query builds filtered GORM queries from a declarative field list,
// so list endpoints describe their filters as data instead of repeating
// Where-chains.
package query

import "gorm.io/gorm"

type op int

const (
	opEq op = iota
	opLike
	opGte
	opLte
)

type Filter struct {
	column string
	op     op
	value  interface{}
	skip   bool
}

// Eq matches the column exactly. Empty string values skip the filter.
func Eq(column string, value interface{}) Filter {
	if s, ok := value.(string); ok && s == "" {
		return Filter{skip: true}
	}
	return Filter{column: column, op: opEq, value: value}
}

// Like matches case-insensitively on a substring. Empty values skip the
// filter. LOWER(...) LIKE keeps the behavior identical on postgres and
// sqlite.
func Like(column, value string) Filter {
	if value == "" {
		return Filter{skip: true}
	}
	return Filter{column: column, op: opLike, value: value}
}

// Min keeps rows where the column is >= *value. Nil skips the filter.
func Min(column string, value *float64) Filter {
	if value == nil {
		return Filter{skip: true}
	}
	return Filter{column: column, op: opGte, value: *value}
}

// Max keeps rows where the column is <= *value. Nil skips the filter.
func Max(column string, value *float64) Filter {
	if value == nil {
		return Filter{skip: true}
	}
	return Filter{column: column, op: opLte, value: *value}
}

// Apply folds the filters into the query, skipping unset ones.
func Apply(db *gorm.DB, filters ...Filter) *gorm.DB {
	for _, f := range filters {
		if f.skip {
			continue
		}
		switch f.op {
		case opEq:
			db = db.Where(f.column+" = ?", f.value)
		case opLike:
			db = db.Where("LOWER("+f.column+") LIKE LOWER(?)", "%"+f.value.(string)+"%")
		case opGte:
			db = db.Where(f.column+" >= ?", f.value)
		case opLte:
			db = db.Where(f.column+" <= ?", f.value)
		}
	}
	return db
}

// Page applies limit/offset with the marketplace defaults: limit clamped to
// 1..100 (default 20), negative offsets treated as zero.
func Page(db *gorm.DB, limit, offset int) *gorm.DB {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return db.Limit(limit).Offset(offset)
}
