package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusNew        = "new"
	StatusInProgress = "in-progress"
	StatusQuoted     = "quoted"
	StatusNegotiate  = "negotiating"
	StatusWon        = "won"
	StatusLost       = "lost"
	StatusOnHold     = "on-hold"

	PriorityMedium = "medium"

	DefaultQuantity = 1
)

type Address struct {
	Street     string `json:"street"     validate:"max=255"`
	City       string `json:"city"       validate:"max=100"`
	State      string `json:"state"      validate:"max=100"`
	PostalCode string `json:"postalCode" validate:"max=20"`
	Country    string `json:"country"    validate:"max=100"`
}

type ProjectDetails struct {
	ProjectType     string `json:"projectType"     validate:"omitempty,oneof=home-decoration office-interior hospitality retail event other"`
	Budget          string `json:"budget"          validate:"omitempty,oneof=under-10k 10k-50k 50k-100k 100k-500k above-500k flexible"`
	Timeline        string `json:"timeline"        validate:"omitempty,oneof=asap 1-2-weeks 1-month 2-3-months flexible"`
	DeliveryAddress string `json:"deliveryAddress" validate:"max=1000"`
}

// LeadProduct is one requested product. A zero quantity means one.
type LeadProduct struct {
	Product            uuid.UUID `json:"product"            validate:"required"`
	Quantity           int       `json:"quantity"           validate:"gte=0,lte=100000"`
	CustomRequirements string    `json:"customRequirements" validate:"max=2000"`
}

// SubmitLead is the public quote request. Presence of customerName, email, phone and products is
// checked before the remaining rules so the first missing one is reported by name.
type SubmitLead struct {
	CustomerName           string          `json:"customerName"           validate:"max=255"`
	Email                  string          `json:"email"                  validate:"email,max=255"`
	Phone                  string          `json:"phone"                  validate:"max=32"`
	Company                string          `json:"company"                validate:"max=255"`
	Address                *Address        `json:"address"`
	Products               []LeadProduct   `json:"products"               validate:"dive"`
	ProjectDetails         *ProjectDetails `json:"projectDetails"`
	AdditionalRequirements string          `json:"additionalRequirements" validate:"max=5000"`
	HearAboutUs            string          `json:"hearAboutUs"            validate:"omitempty,oneof=google social-media word-of-mouth advertisement existing-customer other"`
}

type FindLeads struct {
	Status string `validate:"omitempty,oneof=new in-progress quoted negotiating won lost on-hold"`
	Page   int    `validate:"gte=1"`
	Limit  int    `validate:"gte=1,lte=100"`
}

// UpdateLead changes only the fields that are set. A non empty Note is appended to the lead.
type UpdateLead struct {
	Status       string           `json:"status"       validate:"omitempty,oneof=new in-progress quoted negotiating won lost on-hold"`
	Priority     string           `json:"priority"     validate:"omitempty,oneof=low medium high urgent"`
	QuotedAmount *decimal.Decimal `json:"quotedAmount" validate:"omitempty,gte=0"`
	FollowUpDate *time.Time       `json:"followUpDate"`
	Note         string           `json:"note"         validate:"max=5000"`
}

// LeadCreated is published on the lead.created topic.
type LeadCreated struct {
	LeadID       uuid.UUID `json:"leadId"`
	CustomerName string    `json:"customerName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Company      string    `json:"company"`
	ProductCount int       `json:"productCount"`
	ProjectType  string    `json:"projectType"`
	Budget       string    `json:"budget"`
	Timeline     string    `json:"timeline"`
	CreatedAt    time.Time `json:"createdAt"`
}
