package reporter

import (
	"encoding/json"
	"os"
)

// WriteJSONReport serializes the report with indentation and writes it to
// outputPath.
func WriteJSONReport(reportData *Report, outputPath string) error {
	jsonData, err := json.MarshalIndent(reportData, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, jsonData, 0644)
}
