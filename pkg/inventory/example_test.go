package inventory_test

import (
	"fmt"

	"github.com/openfroyo/vendcheck/pkg/inventory"
)

// Example shows a catalog evaluated against a machine's stock.
func Example() {
	stock := inventory.InventoryOf(
		inventory.Item{Name: "hot_water", Amount: 500},
		inventory.Item{Name: "hot_milk", Amount: 500},
		inventory.Item{Name: "ginger_syrup", Amount: 100},
		inventory.Item{Name: "sugar_syrup", Amount: 100},
		inventory.Item{Name: "tea_leaves_syrup", Amount: 100},
	)

	var catalog inventory.Catalog
	catalog.Add("hot_tea", inventory.RecipeOf(
		inventory.Item{Name: "hot_water", Amount: 200},
		inventory.Item{Name: "hot_milk", Amount: 100},
		inventory.Item{Name: "ginger_syrup", Amount: 10},
		inventory.Item{Name: "sugar_syrup", Amount: 10},
		inventory.Item{Name: "tea_leaves_syrup", Amount: 30},
	))
	catalog.Add("hot_coffee", inventory.RecipeOf(
		inventory.Item{Name: "hot_water", Amount: 100},
		inventory.Item{Name: "ginger_syrup", Amount: 30},
		inventory.Item{Name: "hot_milk", Amount: 400},
		inventory.Item{Name: "sugar_syrup", Amount: 50},
		inventory.Item{Name: "tea_leaves_syrup", Amount: 30},
	))
	catalog.Add("black_tea", inventory.RecipeOf(
		inventory.Item{Name: "hot_water", Amount: 300},
		inventory.Item{Name: "ginger_syrup", Amount: 30},
		inventory.Item{Name: "sugar_syrup", Amount: 50},
		inventory.Item{Name: "tea_leaves_syrup", Amount: 30},
	))
	catalog.Add("green_tea", inventory.RecipeOf(
		inventory.Item{Name: "hot_water", Amount: 100},
		inventory.Item{Name: "ginger_syrup", Amount: 30},
		inventory.Item{Name: "sugar_syrup", Amount: 50},
		inventory.Item{Name: "green_mixture", Amount: 30},
	))

	_, report := inventory.Evaluate(stock, catalog)
	fmt.Print(report)

	// Output:
	// hot_tea is prepared
	// hot_coffee is prepared
	// black_tea cannot be prepared because item sugar_syrup is not sufficient
	// green_tea cannot be prepared because green_mixture is not available
}
