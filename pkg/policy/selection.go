package policy

import (
	"github.com/younsl/ec2tags/internal/models"
	"github.com/younsl/ec2tags/pkg/utils"
)

// ShouldAct reports whether an instance with the given tags is selected by mode
func ShouldAct(mode models.SelectionMode, tags []models.Tag) bool {
	switch mode.Kind {
	case models.SelectNoTags:
		return len(tags) == 0
	case models.SelectNoNameTag:
		return len(tags) == 0 || !utils.TagExists(tags, models.NameTagKey, "")
	case models.SelectSpecificTag:
		// an untagged instance never matches a specific tag
		return len(tags) > 0 && utils.TagExists(tags, mode.Key, mode.Value)
	default:
		return false
	}
}

// Eligible combines the state gate and the selection policy for one instance
func Eligible(action models.Action, mode models.SelectionMode, inst models.Instance) bool {
	return IsActionable(action, inst.State) && ShouldAct(mode, inst.Tags)
}
