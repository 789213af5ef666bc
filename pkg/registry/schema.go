// pkg/registry/schema.go
package registry

// PresetCatalog is a JSON export of the chat_presets table, produced by the
// dashboard's export button and consumed by the preset-lint tool.
type PresetCatalog struct {
	Version     string      `json:"version"`
	LastUpdated string      `json:"lastUpdated"`
	Presets     []PresetRow `json:"presets"`
}

type PresetRow struct {
	Name        string `json:"name"`
	Keywords    string `json:"keywords"`
	Phrase      string `json:"phrase"`
	Description string `json:"description"`
	Report      string `json:"report"`
}
