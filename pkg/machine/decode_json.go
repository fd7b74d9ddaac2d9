package machine

import (
	"errors"
	"math"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/openfroyo/vendcheck/pkg/inventory"
)

// decodeJSON walks the document with gjson so that object keys are visited
// in the order they were written.
func decodeJSON(data []byte) (*Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, structural("", "document is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, structural("", "document must be an object")
	}

	m := root.Get(FieldMachine)
	if !m.Exists() {
		return nil, structural(FieldMachine, "required field is missing")
	}
	if !m.IsObject() {
		return nil, structural(FieldMachine, "must be an object")
	}

	rec := &Record{}

	if outlets := m.Get(FieldOutlets); outlets.Exists() {
		path := FieldMachine + "." + FieldOutlets
		if !outlets.IsObject() {
			return nil, structural(path, "must be an object")
		}
		if count := outlets.Get(FieldCount); count.Exists() {
			n, err := jsonInt(path+"."+FieldCount, count)
			if err != nil {
				return nil, err
			}
			rec.OutletCount = n
		}
	}

	if stock := m.Get(FieldInventory); stock.Exists() {
		inv, err := jsonInventory(FieldMachine+"."+FieldInventory, stock)
		if err != nil {
			return nil, err
		}
		rec.Inventory = inv
	}

	if bevs := m.Get(FieldBeverages); bevs.Exists() {
		catalog, err := jsonCatalog(FieldMachine+"."+FieldBeverages, bevs)
		if err != nil {
			return nil, err
		}
		rec.Catalog = catalog
	}

	return rec, nil
}

func jsonInventory(path string, v gjson.Result) (*inventory.Inventory, error) {
	if !v.IsObject() {
		return nil, structural(path, "must be an object")
	}

	inv := inventory.NewInventory()
	var err error
	v.ForEach(func(key, value gjson.Result) bool {
		var n int
		n, err = jsonInt(path+"."+key.String(), value)
		if err != nil {
			return false
		}
		inv.Set(key.String(), n)
		return true
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func jsonCatalog(path string, v gjson.Result) (inventory.Catalog, error) {
	if !v.IsObject() {
		return nil, structural(path, "must be an object")
	}

	catalog := inventory.Catalog{}
	var err error
	v.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		bevPath := path + "." + name
		if !value.IsObject() {
			err = structural(bevPath, "must be an object")
			return false
		}

		recipe := inventory.NewRecipe()
		value.ForEach(func(ing, amount gjson.Result) bool {
			var n int
			n, err = jsonInt(bevPath+"."+ing.String(), amount)
			if err != nil {
				return false
			}
			recipe.Set(ing.String(), n)
			return true
		})
		if err != nil {
			return false
		}

		catalog.Add(name, recipe)
		return true
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

func jsonInt(path string, v gjson.Result) (int, error) {
	if v.Type != gjson.Number {
		return 0, structural(path, "must be an integer, got %s", v.Type)
	}

	n, err := strconv.ParseInt(v.Raw, 10, strconv.IntSize)
	if err == nil {
		return int(n), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, structural(path, "out of range: %s", v.Raw)
	}

	// Fraction or exponent forms such as 10.0 or 1e3.
	if v.Num != math.Trunc(v.Num) {
		return 0, structural(path, "must be an integer, got %s", v.Raw)
	}
	if v.Num < float64(math.MinInt) || v.Num >= -float64(math.MinInt) {
		return 0, structural(path, "out of range: %s", v.Raw)
	}
	return int(v.Num), nil
}
