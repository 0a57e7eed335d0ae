package finder

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/genericbro/genericbro-api/entities"
	"github.com/genericbro/genericbro-api/store"
)

var hundred = decimal.NewFromInt(100)

// MapMedicine validates a raw row and builds the Medicine entity.
//
// The cost columns are coerced to exact decimals regardless of how the
// driver delivered them. "Cost difference" and "Savings" are always
// recomputed from the two price columns; any stored values are ignored.
// Recomputing is the single policy here: the upstream service sometimes
// trusted stored values and sometimes recomputed, and the two can drift.
func MapMedicine(row store.Row) (entities.Medicine, error) {
	var m entities.Medicine
	var err error

	if m.Name, err = textField(row, ColName); err != nil {
		return entities.Medicine{}, err
	}
	if m.Dosage, err = textField(row, ColDosage); err != nil {
		return entities.Medicine{}, err
	}
	if m.Formulation, err = textField(row, ColFormulation); err != nil {
		return entities.Medicine{}, err
	}
	if m.Type, err = textField(row, ColType); err != nil {
		return entities.Medicine{}, err
	}
	if m.Uses, err = textField(row, ColUses); err != nil {
		return entities.Medicine{}, err
	}
	if m.SideEffects, err = textField(row, ColSideEffects); err != nil {
		return entities.Medicine{}, err
	}

	branded, err := priceField(row, ColCostOfBranded)
	if err != nil {
		return entities.Medicine{}, err
	}
	generic, err := priceField(row, ColCostOfGeneric)
	if err != nil {
		return entities.Medicine{}, err
	}
	if generic.GreaterThan(branded) {
		return entities.Medicine{}, &MappingError{
			Field:  ColCostOfGeneric,
			Reason: "generic price cannot be higher than branded price",
		}
	}

	m.CostOfBranded = branded
	m.CostOfGeneric = generic
	m.CostDifference = branded.Sub(generic)

	if branded.IsPositive() {
		savings, _ := m.CostDifference.Div(branded).Mul(hundred).Round(1).Float64()
		m.Savings = &savings
	}

	return m, nil
}

func textField(row store.Row, column string) (string, error) {
	v, ok := row[column]
	if !ok || v == nil {
		return "", &MappingError{Field: column, Reason: "missing required field"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &MappingError{Field: column, Reason: fmt.Sprintf("expected text, got %T", v)}
	}
	return s, nil
}

func priceField(row store.Row, column string) (decimal.Decimal, error) {
	v, ok := row[column]
	if !ok || v == nil {
		return decimal.Zero, &MappingError{Field: column, Reason: "missing required field"}
	}

	d, err := toDecimal(v)
	if err != nil {
		return decimal.Zero, &MappingError{Field: column, Reason: err.Error()}
	}
	if d.IsNegative() {
		return decimal.Zero, &MappingError{Field: column, Reason: "price cannot be negative"}
	}
	return d, nil
}

// toDecimal accepts the representations the pgx stdlib driver uses for
// numeric columns.
func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case string:
		return decimal.NewFromString(n)
	case float64:
		return decimal.NewFromFloat(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric type %T", v)
	}
}
