// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"raceward/internal/core/domain"
)

// OutputJSON writes the consolidated report as JSON into the output
// directory. The file is always generated: CI callers consume it to
// distinguish resolution errors from test failures.
func OutputJSON(dir string, result *domain.HarnessResult) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	path := filepath.Join(dir, "raceward_result.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
