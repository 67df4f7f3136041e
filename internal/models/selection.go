package models

import "fmt"

// SelectionKind identifies which selection policy is active
type SelectionKind int

const (
	// SelectNoTags matches instances without any tag
	SelectNoTags SelectionKind = iota
	// SelectNoNameTag matches instances without a Name tag
	SelectNoNameTag
	// SelectSpecificTag matches instances carrying a given tag
	SelectSpecificTag
)

// NameTagKey is the tag key inspected by the no-name selection
const NameTagKey = "Name"

// SelectionMode is the single policy deciding which instances are candidates.
// The zero value selects instances without tags.
type SelectionMode struct {
	Kind  SelectionKind
	Key   string
	Value string
}

// NoTags selects untagged instances
func NoTags() SelectionMode {
	return SelectionMode{Kind: SelectNoTags}
}

// NoNameTag selects instances without a Name tag
func NoNameTag() SelectionMode {
	return SelectionMode{Kind: SelectNoNameTag}
}

// SpecificTag selects instances tagged with key, and with value when value is not empty
func SpecificTag(key, value string) SelectionMode {
	return SelectionMode{Kind: SelectSpecificTag, Key: key, Value: value}
}

func (m SelectionMode) String() string {
	switch m.Kind {
	case SelectNoTags:
		return "no-tags"
	case SelectNoNameTag:
		return "no-name-tag"
	case SelectSpecificTag:
		if m.Value == "" {
			return fmt.Sprintf("tag(%s)", m.Key)
		}
		return fmt.Sprintf("tag(%s=%s)", m.Key, m.Value)
	default:
		return fmt.Sprintf("unknown(%d)", int(m.Kind))
	}
}
