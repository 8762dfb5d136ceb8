package booking

import (
	"sort"

	"github.com/Masterminds/squirrel"
)

// sortedKeys фиксирует порядок колонок в UPDATE, чтобы SQL был детерминированным
func sortedKeys(values squirrel.Eq) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
