package waypoint

import (
	"fmt"

	"github.com/ivlev/geotour/internal/system"
)

// FindLatestTour finds the most recently modified tour file in dir
func FindLatestTour(dir string) (string, error) {
	path, err := system.FindLatest(dir, ".yaml", ".yml")
	if err != nil {
		return "", fmt.Errorf("failed to find tour: %w", err)
	}
	return path, nil
}
