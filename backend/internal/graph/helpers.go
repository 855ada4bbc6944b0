package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// getStringSliceFromRecord reads a list property. Missing or null lists come
// back empty, never nil.
func getStringSliceFromRecord(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return []string{}
	}
	switch slice := val.(type) {
	case []string:
		result := make([]string, len(slice))
		copy(result, slice)
		return result
	case []interface{}:
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return []string{}
}

// distinctCount counts distinct values across all lists
func distinctCount(lists ...[]string) int {
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, v := range list {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}
