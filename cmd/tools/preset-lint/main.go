// cmd/tools/preset-lint/main.go
//
// preset-lint cross-checks a preset catalog export against the report
// registry compiled into the server, catching presets that reference reports
// which no longer exist before they reach production.
package main

import (
	"flag"
	"fmt"
	"os"

	"crm-assistant/internal/chat/reports"
	"crm-assistant/pkg/registry"
)

func main() {
	path := flag.String("path", "configs/preset-catalog.json", "Path to preset catalog file")
	flag.Parse()

	cat, err := registry.LoadCatalog(*path)
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	problems := registry.Validate(cat, reports.Exists)
	if len(problems) == 0 {
		fmt.Printf("OK: %d presets, all reports known\n", len(cat.Presets))
		return
	}

	for _, p := range problems {
		fmt.Printf("Problem: %v\n", p)
	}
	fmt.Printf("%d problems found\n", len(problems))
	os.Exit(1)
}
