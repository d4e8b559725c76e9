package models

// Plan is an investment tier; immutable reference data seeded externally
type Plan struct {
	ID                 string  `json:"id" bson:"_id"`
	PlanName           string  `json:"planName" bson:"planName"`
	Amount             float64 `json:"amount" bson:"amount"`
	ReferralPercentage float64 `json:"referralPercentage" bson:"referralPercentage"`
}

// ReferralBonus is the result of a commission calculation against a referrer's plan
type ReferralBonus struct {
	Amount             float64 `json:"amount"`
	PlanID             string  `json:"planId"`
	PlanName           string  `json:"planName"`
	ReferralPercentage float64 `json:"referralPercentage"`
}
