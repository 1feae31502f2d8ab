// internal/models/common.go
package models

import (
	"math"
	"strconv"
	"strings"
)

// Enums
type RateCardStatus string

const (
	RateCardStatusPending  RateCardStatus = "pending"
	RateCardStatusApproved RateCardStatus = "approved"
	RateCardStatusRejected RateCardStatus = "rejected"
)

type ApprovalChannel string

const (
	ApprovalChannelNone     ApprovalChannel = "none"
	ApprovalChannelInternal ApprovalChannel = "internal"
	ApprovalChannelPublic   ApprovalChannel = "public"
)

type WeightBracket string

const (
	BracketDoxUpTo250g      WeightBracket = "0.1g-250g"
	BracketDox251To500g     WeightBracket = "251g-500g"
	BracketPriorityUpTo500g WeightBracket = "0.1g-500g"
	BracketAdditional500g   WeightBracket = "additional-500g"
)

// DoxBrackets and PriorityBrackets enumerate the weight brackets each
// shipment class prices against.
var (
	DoxBrackets      = []WeightBracket{BracketDoxUpTo250g, BracketDox251To500g, BracketAdditional500g}
	PriorityBrackets = []WeightBracket{BracketPriorityUpTo500g, BracketAdditional500g}
)

type Region string

const (
	RegionAssam                     Region = "assam"
	RegionNorthEastBySurface        Region = "northEastBySurface"
	RegionNorthEastByAirAgentImport Region = "northEastByAirAgentImport"
	RegionRestOfIndia               Region = "restOfIndia"
)

type ShipmentClass string

const (
	ClassDox           ShipmentClass = "dox"
	ClassPriority      ShipmentClass = "priority"
	ClassNonDoxSurface ShipmentClass = "nonDoxSurface"
	ClassNonDoxAir     ShipmentClass = "nonDoxAir"
)

// Rate is a single non-negative price value. Rate-card forms arrive with
// rates typed as numbers, numeric strings, empty strings or nulls depending
// on which fields the client touched; decoding coerces anything that is not
// a finite non-negative number to 0 instead of failing the whole document.
type Rate float64

func (r *Rate) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*r = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		*r = 0
		return nil
	}
	*r = Rate(v)
	return nil
}

// Clamp normalizes rates assembled in code rather than decoded from JSON.
func (r Rate) Clamp() Rate {
	v := float64(r)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return r
}
