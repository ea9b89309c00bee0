package seed

import "bistro/internal/model"

// DefaultMenuItems returns the built-in menu seed set, used when no seed
// file is configured. Ids are fixed so repeated seeding of a wiped bucket
// produces the same records.
func DefaultMenuItems() []model.MenuItem {
	return []model.MenuItem{
		{
			ID:          "m-greek-salad",
			Name:        "Greek Salad",
			Description: "Crisp romaine, feta, olives, cucumber and a lemon-oregano dressing",
			Price:       8.50,
			Category:    "Salads",
			ImageURL:    "https://images.bistro.example/greek-salad.jpg",
			IsActive:    true,
		},
		{
			ID:          "m-tomato-soup",
			Name:        "Roasted Tomato Soup",
			Description: "Slow-roasted tomatoes blended with basil and a touch of cream",
			Price:       6.00,
			Category:    "Soups",
			ImageURL:    "https://images.bistro.example/tomato-soup.jpg",
			IsActive:    true,
		},
		{
			ID:          "m-carbonara",
			Name:        "Spaghetti Carbonara",
			Description: "Spaghetti with pancetta, egg yolk, pecorino and black pepper",
			Price:       13.00,
			Category:    "Pasta",
			ImageURL:    "https://images.bistro.example/carbonara.jpg",
			IsActive:    true,
		},
		{
			ID:          "m-margherita",
			Name:        "Pizza Margherita",
			Description: "San Marzano tomato, fior di latte mozzarella and fresh basil",
			Price:       11.50,
			Category:    "Pizza",
			ImageURL:    "https://images.bistro.example/margherita.jpg",
			IsActive:    true,
		},
		{
			ID:          "m-grilled-salmon",
			Name:        "Grilled Salmon",
			Description: "Atlantic salmon fillet with seasonal vegetables and herb butter",
			Price:       18.00,
			Category:    "Main Courses",
			ImageURL:    "https://images.bistro.example/grilled-salmon.jpg",
			IsActive:    true,
		},
		{
			ID:          "m-tiramisu",
			Name:        "Tiramisu",
			Description: "Espresso-soaked ladyfingers layered with mascarpone cream",
			Price:       7.00,
			Category:    "Desserts",
			ImageURL:    "https://images.bistro.example/tiramisu.jpg",
			IsActive:    true,
		},
		{
			ID:          "m-fresh-lemonade",
			Name:        "Fresh Lemonade",
			Description: "House-made lemonade with mint, served over crushed ice",
			Price:       3.50,
			Category:    "Beverages",
			ImageURL:    "https://images.bistro.example/lemonade.jpg",
			IsActive:    true,
		},
		{
			ID:          "m-bruschetta",
			Name:        "Bruschetta Trio",
			Description: "Toasted ciabatta with tomato-basil, mushroom and olive tapenade",
			Price:       5.50,
			Category:    "Appetizers",
			ImageURL:    "https://images.bistro.example/bruschetta.jpg",
			IsActive:    true,
		},
	}
}
