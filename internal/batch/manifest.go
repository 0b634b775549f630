package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one file in the output manifest.
type ManifestEntry struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Blocks int    `json:"blocks"`
	Error  string `json:"error,omitempty"`
}

// WriteManifest writes the batch results as JSON.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Input:  r.Input,
			Blocks: r.Blocks,
			Error:  r.Error,
		}
		if r.Success {
			entries[i].Output = r.Output
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
