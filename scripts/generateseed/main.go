package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"bistro/internal/seed"
)

// Writes the built-in default menu to data/seed/menu_items.json so it can be
// edited by hand or uploaded to the seed S3 bucket.
func main() {
	dataDir := "data/seed"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	items := seed.DefaultMenuItems()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode menu items: %v", err)
	}

	filePath := filepath.Join(dataDir, "menu_items.json")
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d menu items\n", filePath, len(items))
}
