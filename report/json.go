package report

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

// BuildJSON dumps the computed metrics for downstream tooling.
func BuildJSON(ctx *Context, path string) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(ctx.Metrics, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write JSON %s: %w", path, err)
	}
	return nil
}
