// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

func LoadCatalog(path string) (*PresetCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat PresetCatalog
	err = json.Unmarshal(data, &cat)
	return &cat, err
}

// Validate checks every preset row against the set of known report names and
// basic field requirements. reportExists is injected so this package stays
// independent of the report registry.
func Validate(cat *PresetCatalog, reportExists func(name string) bool) []error {
	var problems []error

	seen := map[string]bool{}
	for i, p := range cat.Presets {
		if p.Name == "" {
			problems = append(problems, fmt.Errorf("preset %d: name is empty", i))
			continue
		}
		if seen[p.Name] {
			problems = append(problems, fmt.Errorf("preset %q: duplicate name", p.Name))
		}
		seen[p.Name] = true

		if p.Description == "" {
			problems = append(problems, fmt.Errorf("preset %q: description is empty", p.Name))
		}
		if strings.TrimSpace(p.Keywords) == "" && p.Phrase == "" {
			problems = append(problems, fmt.Errorf("preset %q: no keywords and no phrase, can never match", p.Name))
		}

		report := strings.TrimSuffix(strings.TrimSpace(p.Report), ";")
		if report == "" {
			problems = append(problems, fmt.Errorf("preset %q: report is empty", p.Name))
		} else if !reportExists(report) {
			problems = append(problems, fmt.Errorf("preset %q: unknown report %q", p.Name, report))
		}
	}

	return problems
}
