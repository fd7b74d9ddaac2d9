package inventory

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// quantities is an insertion-ordered mapping from ingredient name to amount.
// Setting an existing name keeps its original position and replaces the value.
type quantities struct {
	names  []string
	values map[string]int
}

func newQuantities(capacity int) quantities {
	return quantities{
		names:  make([]string, 0, capacity),
		values: make(map[string]int, capacity),
	}
}

// Set stores the amount for an ingredient.
func (q *quantities) Set(name string, amount int) {
	if q.values == nil {
		q.values = make(map[string]int)
	}
	if _, ok := q.values[name]; !ok {
		q.names = append(q.names, name)
	}
	q.values[name] = amount
}

// Get returns the amount stored for an ingredient and whether the key exists.
func (q *quantities) Get(name string) (int, bool) {
	v, ok := q.values[name]
	return v, ok
}

// Len returns the number of ingredients.
func (q *quantities) Len() int {
	return len(q.names)
}

// Names returns the ingredient names in insertion order.
func (q *quantities) Names() []string {
	out := make([]string, len(q.names))
	copy(out, q.names)
	return out
}

// Each calls fn for every ingredient in insertion order.
func (q *quantities) Each(fn func(name string, amount int)) {
	for _, name := range q.names {
		fn(name, q.values[name])
	}
}

func (q *quantities) clone() quantities {
	c := newQuantities(len(q.names))
	for _, name := range q.names {
		c.Set(name, q.values[name])
	}
	return c
}

// MarshalJSON encodes the mapping as a JSON object, keeping insertion order.
func (q quantities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range q.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(q.values[name]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Inventory holds the on-hand quantity of each ingredient for one machine.
// It is owned by a single evaluation run.
type Inventory struct {
	quantities
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{quantities: newQuantities(0)}
}

// InventoryOf builds an inventory from name/amount pairs, in the given order.
func InventoryOf(pairs ...Item) *Inventory {
	inv := &Inventory{quantities: newQuantities(len(pairs))}
	for _, p := range pairs {
		inv.Set(p.Name, p.Amount)
	}
	return inv
}

// Clone returns an independent copy of the inventory.
func (inv *Inventory) Clone() *Inventory {
	return &Inventory{quantities: inv.clone()}
}

// Recipe holds the required quantity of each ingredient for one beverage.
type Recipe struct {
	quantities
}

// NewRecipe returns an empty recipe.
func NewRecipe() *Recipe {
	return &Recipe{quantities: newQuantities(0)}
}

// RecipeOf builds a recipe from name/amount pairs, in the given order.
func RecipeOf(pairs ...Item) *Recipe {
	r := &Recipe{quantities: newQuantities(len(pairs))}
	for _, p := range pairs {
		r.Set(p.Name, p.Amount)
	}
	return r
}

// Item is a single ingredient/amount pair.
type Item struct {
	Name   string
	Amount int
}

// Beverage is one catalog entry.
type Beverage struct {
	Name   string  `json:"name"`
	Recipe *Recipe `json:"recipe"`
}

// Catalog is the ordered list of beverages a machine offers.
// Processing order is the order of the slice.
type Catalog []Beverage

// Add appends a beverage. A name already present keeps its position and
// takes the new recipe.
func (c *Catalog) Add(name string, recipe *Recipe) {
	for i := range *c {
		if (*c)[i].Name == name {
			(*c)[i].Recipe = recipe
			return
		}
	}
	*c = append(*c, Beverage{Name: name, Recipe: recipe})
}

// Names returns the beverage names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, b := range c {
		names[i] = b.Name
	}
	return names
}
