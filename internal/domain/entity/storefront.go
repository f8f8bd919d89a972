package entity

import (
	"slices"
	"time"
)

// CategoryAll is the catch-all category every storefront lists first.
const CategoryAll = "All"

type BusinessType string

const (
	BusinessPhysical BusinessType = "physical"
	BusinessDigital  BusinessType = "digital"
	BusinessService  BusinessType = "service"
)

type TargetAudience string

const (
	AudienceGeneral TargetAudience = "general"
	AudienceLuxury  TargetAudience = "luxury"
	AudienceBudget  TargetAudience = "budget"
)

type ShippingScope string

const (
	ShippingLocal         ShippingScope = "local"
	ShippingNational      ShippingScope = "national"
	ShippingInternational ShippingScope = "international"
)

type CatalogSize string

const (
	CatalogSmall  CatalogSize = "1-10"
	CatalogMedium CatalogSize = "10-50"
	CatalogLarge  CatalogSize = "50+"
)

// SetupAnswers holds the store setup wizard choices. Every field may be empty
// when the seller skipped the question.
type SetupAnswers struct {
	BusinessType      BusinessType   `json:"businessType" validate:"omitempty,oneof=physical digital service"`
	PrimaryCategory   string         `json:"primaryCategory"`
	TargetAudience    TargetAudience `json:"targetAudience" validate:"omitempty,oneof=general luxury budget"`
	ShippingType      ShippingScope  `json:"shippingType" validate:"omitempty,oneof=local national international"`
	EstimatedProducts CatalogSize    `json:"estimatedProducts" validate:"omitempty,oneof=1-10 10-50 50+"`
}

type Storefront struct {
	ID             string       `json:"id"`
	SellerID       string       `json:"sellerId"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Logo           string       `json:"logo"`
	Banner         string       `json:"banner"`
	Currency       string       `json:"currency"`
	Categories     []string     `json:"categories"`
	WhatsAppNumber string       `json:"whatsappNumber,omitempty"`
	SetupComplete  bool         `json:"isSetupComplete"`
	SetupAnswers   SetupAnswers `json:"setupAnswers"`
	Rating         float64      `json:"rating"`
	TotalSales     int          `json:"totalSales"`
	CreatedAt      time.Time    `json:"createdAt"`
}

func (s Storefront) Clone() Storefront {
	s.Categories = slices.Clone(s.Categories)
	return s
}

// NormalizeCategories puts "All" first and drops blanks and duplicates.
func NormalizeCategories(categories []string) []string {
	out := []string{CategoryAll}
	for _, c := range categories {
		if c == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}
