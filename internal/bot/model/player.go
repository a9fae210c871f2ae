package model

// Player is a footballer as returned by the marketplace search.
type Player struct {
	Slug        string `json:"slug"`
	DisplayName string `json:"displayName"`
}

// Currency of every price returned by the marketplace.
const Currency = "ETH"

// Rarities priced by the lookup; common cards cannot be sold.
var Rarities = []string{"limited", "rare", "super_rare", "unique"}

// SaleMode restricts listings to fixed-price offers.
const SaleMode = "buyNow"
