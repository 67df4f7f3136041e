package utils

import (
	"encoding/json"
	"fmt"
)

// ParseJSON parses a JSON string into a map
func ParseJSON(jsonStr string) (map[string]interface{}, error) {
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	return result, nil
}

// GetNestedMap walks through nested maps following keys
func GetNestedMap(data map[string]interface{}, keys ...string) (map[string]interface{}, error) {
	current := data
	for _, key := range keys {
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s field not found or invalid", key)
		}
		current = next
	}
	return current, nil
}

// GetFirstMapValue returns the first value in a map as a map.
// Pricing documents key single-entry maps by opaque SKU codes.
func GetFirstMapValue(m map[string]interface{}) (map[string]interface{}, error) {
	for _, v := range m {
		nested, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("value is not a map")
		}
		return nested, nil
	}
	return nil, fmt.Errorf("map is empty")
}
