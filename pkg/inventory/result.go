package inventory

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ReasonKind classifies why a beverage could not be prepared.
// The numeric value is the classification priority used during a scan.
type ReasonKind int

const (
	// ReasonNone means no disqualifying ingredient was found.
	ReasonNone ReasonKind = iota

	// ReasonInsufficient means the ingredient is stocked but below the required amount.
	ReasonInsufficient

	// ReasonMissing means the ingredient is absent from the inventory or stocked at zero.
	ReasonMissing
)

// String returns the lowercase name of the kind.
func (k ReasonKind) String() string {
	switch k {
	case ReasonInsufficient:
		return "insufficient"
	case ReasonMissing:
		return "missing"
	default:
		return "none"
	}
}

// MarshalJSON encodes the kind by name.
func (k ReasonKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Reason names the ingredient that disqualified a beverage.
type Reason struct {
	Kind       ReasonKind `json:"kind"`
	Ingredient string     `json:"ingredient,omitempty"`
}

// IngredientMissing returns a missing-type reason for the ingredient.
func IngredientMissing(name string) Reason {
	return Reason{Kind: ReasonMissing, Ingredient: name}
}

// IngredientInsufficient returns an insufficient-type reason for the ingredient.
func IngredientInsufficient(name string) Reason {
	return Reason{Kind: ReasonInsufficient, Ingredient: name}
}

// String renders the reason as it appears in a report line.
func (r Reason) String() string {
	switch r.Kind {
	case ReasonInsufficient:
		return fmt.Sprintf("item %s is not sufficient", r.Ingredient)
	case ReasonMissing:
		return fmt.Sprintf("%s is not available", r.Ingredient)
	default:
		return ""
	}
}

// Result is the outcome of evaluating one beverage.
type Result struct {
	Beverage string `json:"beverage"`
	Prepared bool   `json:"prepared"`
	Reason   Reason `json:"reason"`
}

// Line renders the result as a single report line without a trailing newline.
func (r Result) Line() string {
	if r.Prepared {
		return r.Beverage + " is prepared"
	}
	return r.Beverage + " cannot be prepared because " + r.Reason.String()
}

// Report holds per-beverage results in catalog order.
type Report []Result

// Lines returns one rendered line per result.
func (r Report) Lines() []string {
	lines := make([]string, len(r))
	for i, res := range r {
		lines[i] = res.Line()
	}
	return lines
}

// String renders the report text, each line terminated by a newline.
func (r Report) String() string {
	var sb strings.Builder
	for _, res := range r {
		sb.WriteString(res.Line())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Counts returns the number of prepared and rejected beverages.
func (r Report) Counts() (prepared, rejected int) {
	for _, res := range r {
		if res.Prepared {
			prepared++
		} else {
			rejected++
		}
	}
	return prepared, rejected
}
