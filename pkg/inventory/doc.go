// Package inventory evaluates a vending machine's ingredient stock against its
// beverage catalog.
//
// Beverages are processed in catalog order. For each one the evaluator scans
// every required ingredient, classifies shortfalls, and deducts the recipe
// from the inventory when nothing is short. The outcome is a Report with one
// line per beverage:
//
//	Espresso is prepared
//	Latte cannot be prepared because item milk is not sufficient
//	Mocha cannot be prepared because chocolate is not available
//
// Classification during the scan: an ingredient that is absent or stocked at
// zero is a missing-type finding and always becomes the reason; an ingredient
// stocked below the required amount is an insufficient-type finding and only
// becomes the reason while no missing-type finding has been recorded for the
// beverage. The scan never stops early, so the last applicable finding wins.
//
// Inventories and recipes keep insertion order so that evaluation is
// deterministic for catalogs decoded from JSON or YAML documents.
package inventory
