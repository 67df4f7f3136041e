package utils

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/ec2tags/internal/models"
)

// TagExists checks whether the tags contain the given key.
// When value is not empty the tag value must match as well.
func TagExists(tags []models.Tag, key, value string) bool {
	for _, tag := range tags {
		if tag.Key != key {
			continue
		}
		if value == "" || tag.Value == value {
			return true
		}
	}
	return false
}

// GetTagValue returns the value of a tag with the given key
func GetTagValue(tags []models.Tag, key string) string {
	for _, tag := range tags {
		if tag.Key == key {
			return tag.Value
		}
	}
	return ""
}

// GetName returns the value of the Name tag
func GetName(tags []models.Tag) string {
	return GetTagValue(tags, models.NameTagKey)
}

// TagsToMap converts a slice of tags to a map
func TagsToMap(tags []models.Tag) map[string]string {
	result := make(map[string]string, len(tags))
	for _, tag := range tags {
		result[tag.Key] = tag.Value
	}
	return result
}

// FromEC2Tags converts SDK tags, skipping entries without a key
func FromEC2Tags(tags []types.Tag) []models.Tag {
	if len(tags) == 0 {
		return nil
	}
	result := make([]models.Tag, 0, len(tags))
	for _, tag := range tags {
		if tag.Key == nil {
			continue
		}
		result = append(result, models.Tag{
			Key:   aws.ToString(tag.Key),
			Value: aws.ToString(tag.Value),
		})
	}
	return result
}
