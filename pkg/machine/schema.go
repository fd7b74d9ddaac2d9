package machine

import (
	"context"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// SchemaRegistry holds compiled CUE schemas for machine documents.
type SchemaRegistry struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// SchemaMachine is the name of the built-in machine record schema.
const SchemaMachine = "machine"

// NewSchemaRegistry creates a registry with the built-in schemas registered.
func NewSchemaRegistry() *SchemaRegistry {
	sr := &SchemaRegistry{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
	if err := sr.RegisterSchema(SchemaMachine, builtinMachineSchema, "#Machine"); err != nil {
		panic(err)
	}
	return sr
}

// RegisterSchema compiles src and registers the definition found at path
// (for example "#Machine") under name.
func (sr *SchemaRegistry) RegisterSchema(name, src, path string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val := sr.ctx.CompileString(src)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	def := val.LookupPath(cue.ParsePath(path))
	if err := def.Err(); err != nil {
		return fmt.Errorf("schema %s has no definition %s: %w", name, path, err)
	}

	sr.schemas[name] = def
	return nil
}

// GetSchema retrieves a schema by name.
func (sr *SchemaRegistry) GetSchema(name string) (cue.Value, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	val, ok := sr.schemas[name]
	return val, ok
}

// Validate checks a raw document against the machine schema. The format is
// chosen from name as in Decode.
func (sr *SchemaRegistry) Validate(ctx context.Context, name string, data []byte) error {
	if FormatFor(name) == FormatJSON {
		return withSource(sr.validateJSON(data), name)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &StructuralError{Source: name, Message: "document cannot be parsed", Err: err}
	}
	return withSource(sr.ValidateAgainstSchema(ctx, SchemaMachine, doc), name)
}

// validateJSON compiles the document directly, since JSON is valid CUE and
// keeps integer literals integral.
func (sr *SchemaRegistry) validateJSON(data []byte) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	schema := sr.schemas[SchemaMachine]
	dataVal := sr.ctx.CompileBytes(data)
	if err := dataVal.Err(); err != nil {
		return &StructuralError{Message: "document cannot be parsed", Err: err}
	}
	if err := schema.Unify(dataVal).Validate(cue.Concrete(true)); err != nil {
		return &StructuralError{Message: "schema validation failed", Err: err}
	}
	return nil
}

// ValidateAgainstSchema validates decoded data against a named schema.
func (sr *SchemaRegistry) ValidateAgainstSchema(ctx context.Context, schemaName string, data interface{}) error {
	// A cue.Context is not safe for concurrent use.
	sr.mu.Lock()
	defer sr.mu.Unlock()

	schema, ok := sr.schemas[schemaName]
	if !ok {
		return fmt.Errorf("schema %s not found", schemaName)
	}

	dataVal := sr.ctx.Encode(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	unified := schema.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &StructuralError{Message: "schema validation failed", Err: err}
	}

	return nil
}

const builtinMachineSchema = `
// A vending machine record: stock on hand and the beverages it offers.
#Machine: {
	machine!: {
		outlets?: {
			count_n?: int & >=0
			...
		}

		// Quantity on hand per ingredient.
		total_items_quantity!: [string]: int

		// Required quantity per ingredient, per beverage.
		beverages!: [string]: [string]: int
		...
	}
	...
}
`
