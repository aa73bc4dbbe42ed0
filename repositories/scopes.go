package repositories

import (
	"strings"

	"gorm.io/gorm"
)

// containsFold is a query scope matching rows whose column contains term as a
// case-insensitive substring. An empty term leaves the query unfiltered.
// LIKE metacharacters in the term are escaped so they match literally.
func containsFold(column, term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '!'", pattern)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return r.Replace(s)
}

// pageOffset converts a 1-based page number into a row offset.
func pageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
