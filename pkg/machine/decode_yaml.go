package machine

import (
	"gopkg.in/yaml.v3"

	"github.com/openfroyo/vendcheck/pkg/inventory"
)

// decodeYAML walks the yaml.v3 node tree, which keeps mapping order.
func decodeYAML(data []byte) (*Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &StructuralError{Message: "document is not valid YAML", Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, structural("", "document is empty")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, structural("", "document must be a mapping")
	}

	m := yamlLookup(root, FieldMachine)
	if m == nil {
		return nil, structural(FieldMachine, "required field is missing")
	}
	if m.Kind != yaml.MappingNode {
		return nil, structural(FieldMachine, "must be a mapping")
	}

	rec := &Record{}

	if outlets := yamlLookup(m, FieldOutlets); outlets != nil {
		path := FieldMachine + "." + FieldOutlets
		if outlets.Kind != yaml.MappingNode {
			return nil, structural(path, "must be a mapping")
		}
		if count := yamlLookup(outlets, FieldCount); count != nil {
			n, err := yamlInt(path+"."+FieldCount, count)
			if err != nil {
				return nil, err
			}
			rec.OutletCount = n
		}
	}

	if stock := yamlLookup(m, FieldInventory); stock != nil {
		path := FieldMachine + "." + FieldInventory
		if stock.Kind != yaml.MappingNode {
			return nil, structural(path, "must be a mapping")
		}
		inv := inventory.NewInventory()
		err := yamlEach(stock, func(key string, value *yaml.Node) error {
			n, err := yamlInt(path+"."+key, value)
			if err != nil {
				return err
			}
			inv.Set(key, n)
			return nil
		})
		if err != nil {
			return nil, err
		}
		rec.Inventory = inv
	}

	if bevs := yamlLookup(m, FieldBeverages); bevs != nil {
		path := FieldMachine + "." + FieldBeverages
		if bevs.Kind != yaml.MappingNode {
			return nil, structural(path, "must be a mapping")
		}
		catalog := inventory.Catalog{}
		err := yamlEach(bevs, func(name string, value *yaml.Node) error {
			bevPath := path + "." + name
			if value.Kind != yaml.MappingNode {
				return structural(bevPath, "must be a mapping")
			}
			recipe := inventory.NewRecipe()
			if err := yamlEach(value, func(ing string, amount *yaml.Node) error {
				n, err := yamlInt(bevPath+"."+ing, amount)
				if err != nil {
					return err
				}
				recipe.Set(ing, n)
				return nil
			}); err != nil {
				return err
			}
			catalog.Add(name, recipe)
			return nil
		})
		if err != nil {
			return nil, err
		}
		rec.Catalog = catalog
	}

	return rec, nil
}

// yamlLookup returns the value node for key in a mapping, or nil. With
// repeated keys the last one wins.
func yamlLookup(mapping *yaml.Node, key string) *yaml.Node {
	var found *yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			found = mapping.Content[i+1]
		}
	}
	return resolveAlias(found)
}

func yamlEach(mapping *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if err := fn(mapping.Content[i].Value, resolveAlias(mapping.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func yamlInt(path string, n *yaml.Node) (int, error) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" {
		return 0, structural(path, "must be an integer, got %q", n.Value)
	}
	var v int
	if err := n.Decode(&v); err != nil {
		return 0, &StructuralError{Path: path, Message: "must be an integer", Err: err}
	}
	return v, nil
}
