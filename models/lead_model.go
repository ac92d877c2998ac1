package models

import "time"

type LeadStatus string

const (
	LeadHot  LeadStatus = "hot"
	LeadWarm LeadStatus = "warm"
	LeadCold LeadStatus = "cold"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadHot, LeadWarm, LeadCold:
		return true
	}
	return false
}

type DetectedProduct struct {
	Name     string  `bson:"name" json:"name"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
}

// Lead is a sales prospect parsed out of a pasted chat.
type Lead struct {
	ID               string            `bson:"id" json:"id"`
	ClientName       string            `bson:"clientName" json:"clientName"`
	Status           LeadStatus        `bson:"status" json:"status"`
	Summary          string            `bson:"summary" json:"summary"`
	SuggestedAction  string            `bson:"suggestedAction" json:"suggestedAction"`
	TotalQuoteUSD    float64           `bson:"totalQuoteUSD" json:"totalQuoteUSD"`
	DetectedProducts []DetectedProduct `bson:"detectedProducts" json:"detectedProducts"`
	LastMessage      string            `bson:"lastMessage" json:"lastMessage"`
	LastUpdate       time.Time         `bson:"lastUpdate" json:"lastUpdate"`
	AccountSource    string            `bson:"accountSource" json:"accountSource"`
}
