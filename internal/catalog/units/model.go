package units

import (
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
)

// Unit is a unit of measure. Factor converts to the base unit.
type Unit struct {
	ID       string          `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	BaseCode string          `json:"base_code,omitempty"`
	Factor   decimal.Decimal `json:"factor"`
}

// UnitInput is the create and update payload.
type UnitInput struct {
	Code     string          `json:"code" validate:"required,max=16"`
	Name     string          `json:"name" validate:"required,max=80"`
	BaseCode string          `json:"base_code,omitempty" validate:"max=16"`
	Factor   decimal.Decimal `json:"factor"`
}

// NewResource binds the units collection.
func NewResource(client *api.Client) *api.Resource[Unit, UnitInput] {
	return api.NewResource[Unit, UnitInput](client, "/units")
}

func decode(v grid.Values) (UnitInput, error) {
	problems := grid.Problems{}
	in := UnitInput{
		Code:     v.Get("code"),
		Name:     v.Get("name"),
		BaseCode: v.Get("base_code"),
		Factor:   v.Decimal("factor", problems),
	}
	if _, bad := problems["factor"]; !bad {
		if v.Get("factor") == "" {
			in.Factor = decimal.NewFromInt(1)
		} else if !in.Factor.IsPositive() {
			problems["factor"] = "must be greater than zero"
		}
	}
	return in, problems.Err()
}

func encode(u Unit) grid.Values {
	return grid.Values{
		"code":      u.Code,
		"name":      u.Name,
		"base_code": u.BaseCode,
		"factor":    u.Factor.String(),
	}
}
