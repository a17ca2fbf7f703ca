package models

import "github.com/shopspring/decimal"

// TransportRoute carries directional term costs. The legacy CostPerTerm
// column is read for rows written before directional pricing existed and is
// never written by new logic.
type TransportRoute struct {
	ID                int64            `json:"id"`
	SchoolID          int64            `json:"school_id"`
	RouteName         string           `json:"route_name"`
	OneWayCostPerTerm decimal.Decimal  `json:"one_way_cost_per_term"`
	TwoWayCostPerTerm decimal.Decimal  `json:"two_way_cost_per_term"`
	CostPerTerm       *decimal.Decimal `json:"cost_per_term,omitempty"`
}

// CostFor returns the term cost for the given usage. Anything other than an
// explicit ONE_WAY, including nil, charges the two-way cost.
func (r *TransportRoute) CostFor(t *TransportType) decimal.Decimal {
	if t != nil && *t == TransportOneWay {
		return r.OneWayCostPerTerm
	}
	return r.TwoWayCostPerTerm
}
