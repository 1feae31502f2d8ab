// internal/models/pricing.go
package models

import (
	"database/sql/driver"
	"encoding/json"
)

// RegionRates is the four-region price breakdown attached to a weight
// bracket or shipment class. The four fields are fixed: a row read back
// always carries all four regions, with 0 for anything the author left
// blank.
type RegionRates struct {
	Assam                     Rate `json:"assam"`
	NorthEastBySurface        Rate `json:"northEastBySurface"`
	NorthEastByAirAgentImport Rate `json:"northEastByAirAgentImport"`
	RestOfIndia               Rate `json:"restOfIndia"`
}

func (r RegionRates) For(region Region) Rate {
	switch region {
	case RegionAssam:
		return r.Assam
	case RegionNorthEastBySurface:
		return r.NorthEastBySurface
	case RegionNorthEastByAirAgentImport:
		return r.NorthEastByAirAgentImport
	case RegionRestOfIndia:
		return r.RestOfIndia
	default:
		return 0
	}
}

func (r RegionRates) Clamped() RegionRates {
	return RegionRates{
		Assam:                     r.Assam.Clamp(),
		NorthEastBySurface:        r.NorthEastBySurface.Clamp(),
		NorthEastByAirAgentImport: r.NorthEastByAirAgentImport.Clamp(),
		RestOfIndia:               r.RestOfIndia.Clamp(),
	}
}

func (r RegionRates) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *RegionRates) Scan(value interface{}) error {
	return scanJSON(value, r)
}

// BracketPricing maps weight brackets to region rate rows. Stored as a
// single JSON column; unknown bracket keys are dropped during
// sanitization, not here.
type BracketPricing map[WeightBracket]RegionRates

func (p BracketPricing) Value() (driver.Value, error) {
	if p == nil {
		return json.Marshal(BracketPricing{})
	}
	return json.Marshal(p)
}

func (p *BracketPricing) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// ReverseRate holds the normal/priority rate pair for one transport mode.
type ReverseRate struct {
	Normal   Rate `json:"normal"`
	Priority Rate `json:"priority"`
}

func (r ReverseRate) Clamped() ReverseRate {
	return ReverseRate{Normal: r.Normal.Clamp(), Priority: r.Priority.Clamp()}
}

// ReverseModes is the per-mode breakdown of one reverse destination group.
type ReverseModes struct {
	ByRoad   ReverseRate `json:"byRoad"`
	ByTrain  ReverseRate `json:"byTrain"`
	ByFlight ReverseRate `json:"byFlight"`
}

func (m ReverseModes) Clamped() ReverseModes {
	return ReverseModes{
		ByRoad:   m.ByRoad.Clamped(),
		ByTrain:  m.ByTrain.Clamped(),
		ByFlight: m.ByFlight.Clamped(),
	}
}

// ReversePricing covers reverse-logistics pickups into the two served
// destination groups.
type ReversePricing struct {
	ToAssam     ReverseModes `json:"toAssam"`
	ToNorthEast ReverseModes `json:"toNorthEast"`
}

func (p ReversePricing) Clamped() ReversePricing {
	return ReversePricing{
		ToAssam:     p.ToAssam.Clamped(),
		ToNorthEast: p.ToNorthEast.Clamped(),
	}
}

func (p ReversePricing) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *ReversePricing) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// ClientContact names the external client the proposal is addressed to.
// Email is required before a public approval link can be issued.
type ClientContact struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

func (c ClientContact) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *ClientContact) Scan(value interface{}) error {
	return scanJSON(value, c)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return nil
	}
}
