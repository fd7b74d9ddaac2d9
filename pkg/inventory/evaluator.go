package inventory

import "fmt"

// DeductionPolicy controls what happens when a deduction would drive a
// quantity below zero.
type DeductionPolicy int

const (
	// ClampAtZero floors every deducted quantity at zero.
	ClampAtZero DeductionPolicy = iota

	// AllowNegative stores the raw difference, negative values included.
	AllowNegative
)

// String returns the policy name used in configuration files.
func (p DeductionPolicy) String() string {
	if p == AllowNegative {
		return "allow-negative"
	}
	return "clamp"
}

// ParseDeductionPolicy parses a policy name as returned by String.
func ParseDeductionPolicy(s string) (DeductionPolicy, error) {
	switch s {
	case "", "clamp":
		return ClampAtZero, nil
	case "allow-negative":
		return AllowNegative, nil
	default:
		return ClampAtZero, fmt.Errorf("unknown deduction policy %q", s)
	}
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithDeductionPolicy sets the deduction policy.
func WithDeductionPolicy(p DeductionPolicy) Option {
	return func(e *Evaluator) {
		e.policy = p
	}
}

// Evaluator decides which beverages of a catalog can be prepared from an
// inventory and deducts the ingredients of each prepared beverage.
// An Evaluator holds no per-run state and may be shared between goroutines;
// the inventories it is given may not.
type Evaluator struct {
	policy DeductionPolicy
}

// NewEvaluator creates an evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{policy: ClampAtZero}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the configured deduction policy.
func (e *Evaluator) Policy() DeductionPolicy {
	return e.policy
}

// Evaluate walks the catalog in order. Each beverage is checked against the
// current inventory and, when it can be prepared, its ingredients are deducted
// before the next beverage is checked. inv is modified in place and returned.
func (e *Evaluator) Evaluate(inv *Inventory, catalog Catalog) (*Inventory, Report) {
	if inv == nil {
		inv = NewInventory()
	}

	report := make(Report, 0, len(catalog))
	for _, bev := range catalog {
		recipe := bev.Recipe
		if recipe == nil {
			recipe = NewRecipe()
		}

		ok, reason := CheckAvailability(inv, recipe)
		if ok {
			e.deduct(inv, recipe)
		}
		report = append(report, Result{
			Beverage: bev.Name,
			Prepared: ok,
			Reason:   reason,
		})
	}

	return inv, report
}

func (e *Evaluator) deduct(inv *Inventory, recipe *Recipe) {
	recipe.Each(func(name string, required int) {
		have, _ := inv.Get(name)
		left := have - required
		if left < 0 && e.policy == ClampAtZero {
			left = 0
		}
		inv.Set(name, left)
	})
}

// Evaluate runs a default evaluator over the catalog.
func Evaluate(inv *Inventory, catalog Catalog) (*Inventory, Report) {
	return NewEvaluator().Evaluate(inv, catalog)
}

// CheckAvailability reports whether every ingredient of recipe is stocked in
// the required amount. All ingredients are visited. A missing ingredient
// (absent, or stocked at zero or less) always replaces the current reason; an
// insufficient ingredient replaces it only while no missing ingredient has
// been seen. The last such finding is returned.
func CheckAvailability(inv *Inventory, recipe *Recipe) (bool, Reason) {
	available := true
	reason := Reason{Kind: ReasonNone}
	if recipe == nil {
		return available, reason
	}
	if inv == nil {
		inv = NewInventory()
	}

	recipe.Each(func(name string, required int) {
		have, _ := inv.Get(name)
		if have > 0 {
			if have < required && reason.Kind != ReasonMissing {
				available = false
				reason = IngredientInsufficient(name)
			}
			return
		}
		available = false
		reason = IngredientMissing(name)
	})

	return available, reason
}
