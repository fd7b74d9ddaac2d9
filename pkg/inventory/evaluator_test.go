package inventory

import (
	"encoding/json"
	"testing"
)

func item(name string, amount int) Item {
	return Item{Name: name, Amount: amount}
}

func TestEvaluate_AllIngredientsAvailable(t *testing.T) {
	inv := InventoryOf(item("water", 500), item("milk", 500), item("sugar", 100))
	catalog := Catalog{
		{Name: "hot_milk", Recipe: RecipeOf(item("milk", 200), item("sugar", 10))},
	}

	final, report := Evaluate(inv, catalog)

	if len(report) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(report))
	}
	if !report[0].Prepared {
		t.Errorf("Expected hot_milk to be prepared, got reason %q", report[0].Reason)
	}
	if got, _ := final.Get("milk"); got != 300 {
		t.Errorf("Expected milk 300, got %d", got)
	}
	if got, _ := final.Get("sugar"); got != 90 {
		t.Errorf("Expected sugar 90, got %d", got)
	}
	if got, _ := final.Get("water"); got != 500 {
		t.Errorf("Expected untouched water 500, got %d", got)
	}
	if final != inv {
		t.Error("Expected the inventory to be modified in place")
	}
}

func TestEvaluate_ExactAmountIsEnough(t *testing.T) {
	inv := InventoryOf(item("tea", 3))
	_, report := Evaluate(inv, Catalog{{Name: "tea", Recipe: RecipeOf(item("tea", 3))}})

	if !report[0].Prepared {
		t.Fatalf("Expected tea to be prepared, got %q", report[0].Line())
	}
	if got, ok := inv.Get("tea"); !ok || got != 0 {
		t.Errorf("Expected tea 0 after deduction, got %d (present=%v)", got, ok)
	}
}

func TestEvaluate_MissingIngredient(t *testing.T) {
	inv := InventoryOf(item("water", 100))
	_, report := Evaluate(inv, Catalog{
		{Name: "cocoa", Recipe: RecipeOf(item("water", 10), item("chocolate", 5))},
	})

	want := "cocoa cannot be prepared because chocolate is not available"
	if got := report[0].Line(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if report[0].Reason != IngredientMissing("chocolate") {
		t.Errorf("Expected missing chocolate, got %+v", report[0].Reason)
	}
	if got, _ := inv.Get("water"); got != 100 {
		t.Errorf("Expected no deduction on failure, water=%d", got)
	}
}

func TestEvaluate_LastMissingIngredientWins(t *testing.T) {
	inv := InventoryOf(item("water", 100))
	_, report := Evaluate(inv, Catalog{
		{Name: "mix", Recipe: RecipeOf(item("a", 1), item("water", 1), item("b", 1))},
	})

	if report[0].Reason != IngredientMissing("b") {
		t.Errorf("Expected missing b, got %+v", report[0].Reason)
	}
}

func TestEvaluate_LastInsufficientIngredientWins(t *testing.T) {
	inv := InventoryOf(item("milk", 1), item("sugar", 1), item("water", 50))
	_, report := Evaluate(inv, Catalog{
		{Name: "latte", Recipe: RecipeOf(item("milk", 2), item("water", 10), item("sugar", 2))},
	})

	want := "latte cannot be prepared because item sugar is not sufficient"
	if got := report[0].Line(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEvaluate_MissingAfterInsufficient(t *testing.T) {
	inv := InventoryOf(item("milk", 1))
	_, report := Evaluate(inv, Catalog{
		{Name: "latte", Recipe: RecipeOf(item("milk", 3), item("coffee", 2))},
	})

	if report[0].Reason != IngredientMissing("coffee") {
		t.Errorf("Expected missing coffee, got %+v", report[0].Reason)
	}
}

func TestEvaluate_InsufficientDoesNotReplaceMissing(t *testing.T) {
	inv := InventoryOf(item("milk", 1))
	_, report := Evaluate(inv, Catalog{
		{Name: "latte", Recipe: RecipeOf(item("coffee", 2), item("milk", 3))},
	})

	if report[0].Reason != IngredientMissing("coffee") {
		t.Errorf("Expected missing coffee to survive, got %+v", report[0].Reason)
	}
}

func TestEvaluate_ZeroStockIsMissing(t *testing.T) {
	inv := InventoryOf(item("water", 100), item("milk", 5), item("coffee", 0))
	catalog := Catalog{
		{Name: "Espresso", Recipe: RecipeOf(item("coffee", 2))},
		{Name: "Latte", Recipe: RecipeOf(item("milk", 3), item("coffee", 2))},
	}

	_, report := Evaluate(inv, catalog)

	want := "Espresso cannot be prepared because coffee is not available\n" +
		"Latte cannot be prepared because coffee is not available\n"
	if got := report.String(); got != want {
		t.Errorf("Unexpected report:\n%s\nwant:\n%s", got, want)
	}
	if got, _ := inv.Get("milk"); got != 5 {
		t.Errorf("Expected milk untouched, got %d", got)
	}
}

func TestEvaluate_NegativeStockIsMissing(t *testing.T) {
	inv := InventoryOf(item("milk", -4))
	_, report := Evaluate(inv, Catalog{{Name: "milk", Recipe: RecipeOf(item("milk", 1))}})

	if report[0].Reason != IngredientMissing("milk") {
		t.Errorf("Expected missing milk, got %+v", report[0].Reason)
	}
}

func TestEvaluate_SequentialDeduction(t *testing.T) {
	inv := InventoryOf(item("milk", 5))
	catalog := Catalog{
		{Name: "D1", Recipe: RecipeOf(item("milk", 3))},
		{Name: "D2", Recipe: RecipeOf(item("milk", 3))},
	}

	_, report := Evaluate(inv, catalog)

	if !report[0].Prepared {
		t.Fatalf("Expected D1 to be prepared, got %q", report[0].Line())
	}
	if report[1].Reason != IngredientInsufficient("milk") {
		t.Errorf("Expected D2 insufficient milk, got %q", report[1].Line())
	}
	if got, _ := inv.Get("milk"); got != 2 {
		t.Errorf("Expected milk 2, got %d", got)
	}
}

func TestEvaluate_DepletedIngredientBecomesMissing(t *testing.T) {
	inv := InventoryOf(item("milk", 3))
	catalog := Catalog{
		{Name: "D1", Recipe: RecipeOf(item("milk", 3))},
		{Name: "D2", Recipe: RecipeOf(item("milk", 1))},
	}

	_, report := Evaluate(inv, catalog)

	if report[1].Reason != IngredientMissing("milk") {
		t.Errorf("Expected D2 missing milk once stock hit zero, got %q", report[1].Line())
	}
}

func TestEvaluate_UnreferencedEntriesUntouched(t *testing.T) {
	inv := InventoryOf(item("a", 10), item("b", 10), item("c", 10))
	before := inv.Clone()

	Evaluate(inv, Catalog{{Name: "x", Recipe: RecipeOf(item("b", 4))}})

	for _, name := range []string{"a", "c"} {
		want, _ := before.Get(name)
		if got, _ := inv.Get(name); got != want {
			t.Errorf("Expected %s to stay %d, got %d", name, want, got)
		}
	}
}

func TestEvaluate_ReportFollowsCatalogOrder(t *testing.T) {
	inv := InventoryOf(item("water", 10))
	names := []string{"zeta", "alpha", "mid"}
	var catalog Catalog
	for _, n := range names {
		catalog.Add(n, RecipeOf(item("water", 1)))
	}

	_, report := Evaluate(inv, catalog)

	for i, n := range names {
		if report[i].Beverage != n {
			t.Errorf("Position %d: expected %s, got %s", i, n, report[i].Beverage)
		}
	}
}

func TestEvaluate_EmptyRecipeIsPrepared(t *testing.T) {
	_, report := Evaluate(NewInventory(), Catalog{{Name: "air", Recipe: NewRecipe()}})
	if !report[0].Prepared {
		t.Errorf("Expected empty recipe to be prepared, got %q", report[0].Line())
	}
}

func TestEvaluate_NilInventory(t *testing.T) {
	final, report := Evaluate(nil, Catalog{{Name: "tea", Recipe: RecipeOf(item("tea", 1))}})
	if final == nil {
		t.Fatal("Expected a non-nil inventory")
	}
	if report[0].Reason != IngredientMissing("tea") {
		t.Errorf("Expected missing tea, got %+v", report[0].Reason)
	}
}

func TestEvaluator_DeductionPolicy(t *testing.T) {
	// Evaluate checks stock before deducting, so go through deduct directly.
	tests := []struct {
		name   string
		policy DeductionPolicy
		want   int
	}{
		{"clamp", ClampAtZero, 0},
		{"allow negative", AllowNegative, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(WithDeductionPolicy(tt.policy))
			inv := InventoryOf(item("milk", 1))
			e.deduct(inv, RecipeOf(item("milk", 3)))
			if got, _ := inv.Get("milk"); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCatalog_AddReplacesInPlace(t *testing.T) {
	var c Catalog
	c.Add("a", RecipeOf(item("x", 1)))
	c.Add("b", RecipeOf(item("x", 1)))
	c.Add("a", RecipeOf(item("x", 9)))

	if len(c) != 2 {
		t.Fatalf("Expected 2 beverages, got %d", len(c))
	}
	if c[0].Name != "a" {
		t.Errorf("Expected a to keep first position, got %v", c.Names())
	}
	if got, _ := c[0].Recipe.Get("x"); got != 9 {
		t.Errorf("Expected replaced recipe amount 9, got %d", got)
	}
}

func TestInventory_SetKeepsPosition(t *testing.T) {
	inv := InventoryOf(item("b", 1), item("a", 2))
	inv.Set("b", 7)

	names := inv.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Errorf("Unexpected order %v", names)
	}

	data, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"b":7,"a":2}` {
		t.Errorf("Unexpected JSON %s", data)
	}
}

func TestReport_Counts(t *testing.T) {
	r := Report{
		{Beverage: "a", Prepared: true},
		{Beverage: "b", Reason: IngredientMissing("x")},
		{Beverage: "c", Reason: IngredientInsufficient("y")},
	}
	p, rej := r.Counts()
	if p != 1 || rej != 2 {
		t.Errorf("Expected 1/2, got %d/%d", p, rej)
	}
}

func TestParseDeductionPolicy(t *testing.T) {
	for _, p := range []DeductionPolicy{ClampAtZero, AllowNegative} {
		got, err := ParseDeductionPolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParseDeductionPolicy(%q) = %v, %v", p.String(), got, err)
		}
	}
	if got, err := ParseDeductionPolicy(""); err != nil || got != ClampAtZero {
		t.Errorf("Expected empty name to mean clamp, got %v, %v", got, err)
	}
	if _, err := ParseDeductionPolicy("wrap"); err == nil {
		t.Error("Expected error for unknown policy")
	}
}
