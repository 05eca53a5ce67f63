package shared

import (
	"strings"

	"conroom/shared/dto"
)

const cacheKeySeparator = ":"

// BuildCacheKey joins a key prefix and its parts, e.g. "room:status:r-101".
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}
