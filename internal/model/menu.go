package model

import (
	"fmt"
	"net/url"
	"strings"
)

// Categories is the fixed set of menu categories.
var Categories = []string{
	"Salads",
	"Soups",
	"Pasta",
	"Pizza",
	"Main Courses",
	"Desserts",
	"Beverages",
	"Appetizers",
}

// MenuItem represents a dish on the restaurant menu.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	IsActive    bool    `json:"isActive"`
}

// EntityID returns the menu item's unique identifier.
func (m MenuItem) EntityID() string { return m.ID }

// Validate checks the fields required to accept a menu item from a client.
func (m *MenuItem) Validate() error {
	if len(strings.TrimSpace(m.Name)) < 3 {
		return NewDomainError(ErrCodeValidation, "Name must be at least 3 characters")
	}

	if len(strings.TrimSpace(m.Description)) < 10 {
		return NewDomainError(ErrCodeValidation, "Description must be at least 10 characters")
	}

	if m.Price <= 0 {
		return NewDomainError(ErrCodeValidation, "Price must be a positive number")
	}

	if !ValidCategory(m.Category) {
		return NewDomainError(ErrCodeValidation, fmt.Sprintf("Invalid category: %s", m.Category))
	}

	u, err := url.Parse(m.ImageURL)
	if err != nil || !u.IsAbs() {
		return NewDomainError(ErrCodeValidation, "Image URL must be a valid URL")
	}

	return nil
}

// IsValid reports whether a stored record is well formed enough to appear in
// listings. Records failing this check are reachable only through cleanup.
func (m MenuItem) IsValid() bool {
	return strings.TrimSpace(m.Name) != "" && m.Price > 0
}

// ValidCategory reports whether the given category is one of the fixed set.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// CleanupResult summarises an index/record cleanup run.
type CleanupResult struct {
	OrphanedIndexEntries int    `json:"orphanedIndexEntries"`
	InvalidDocuments     int    `json:"invalidDocuments"`
	Total                int    `json:"total"`
	Message              string `json:"message"`
}
