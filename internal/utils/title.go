package utils

import (
	"fmt"
	"strings"

	"github.com/amaumene/gowatcharr/internal/models"
)

// seasonMarker introduces the season/episode suffix in media server item
// names, e.g. "Breaking Bad S05E14".
const seasonMarker = " S"

// CanonicalTitle derives the show or movie name from a raw item name.
// For TV the substring before the first season marker is the show title;
// an item name without the marker cannot be resolved. Movies pass through.
func CanonicalTitle(itemName string, itemType models.MediaType) (string, error) {
	if itemType != models.MediaTypeTV {
		return itemName, nil
	}

	idx := strings.Index(itemName, seasonMarker)
	if idx < 0 {
		return "", fmt.Errorf("no season marker in item name %q", itemName)
	}

	return itemName[:idx], nil
}

// DisplayTitle appends the season qualifier for seasons past the first.
// The result is the processed-item store key and the archive lookup title.
func DisplayTitle(canonical string, seasonIndex int) string {
	if seasonIndex <= 1 {
		return canonical
	}
	return fmt.Sprintf("%s 第%d季", canonical, seasonIndex)
}
