// Package machine decodes vending machine records from JSON or YAML
// documents.
//
// A record document has the shape
//
//	{
//	  "machine": {
//	    "outlets": { "count_n": 3 },
//	    "total_items_quantity": { "hot_water": 500, "hot_milk": 500 },
//	    "beverages": {
//	      "hot_tea": { "hot_water": 200, "hot_milk": 100 }
//	    }
//	  }
//	}
//
// Object keys are decoded in document order, which becomes the order of the
// inventory, of each recipe, and of the catalog. Records missing the stock or
// the beverages, or holding non-integer quantities, are rejected with a
// *StructuralError before any evaluation takes place.
//
// SchemaRegistry validates raw documents against a CUE definition of the same
// shape without decoding them into a Record.
package machine
