package response

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MessageLeadSubmitted = "Quote request submitted successfully"
	MessageUsePost       = "Use POST method to submit leads"
	ErrorSubmitLead      = "Failed to submit quote request"
	ErrorMissingProducts = "At least one product is required"
	ErrorMissingField    = "Missing required field: %s"
	ErrorInvalidField    = "Invalid field: %s"
	ErrorInvalidBody     = "Invalid request body"
)

type Submitted struct {
	Success bool      `json:"success"`
	LeadID  uuid.UUID `json:"leadId"`
	Message string    `json:"message"`
}

type Failed struct {
	Error string `json:"error"`
}

type Message struct {
	Message string `json:"message"`
}

type LeadProduct struct {
	Product            uuid.UUID `json:"product"`
	ProductName        string    `json:"productName"`
	Quantity           int32     `json:"quantity"`
	CustomRequirements string    `json:"customRequirements"`
}

type Note struct {
	Note   string    `json:"note"`
	Author string    `json:"author"`
	Date   time.Time `json:"date"`
}

type Lead struct {
	ID                     uuid.UUID        `json:"id"`
	CustomerName           string           `json:"customerName"`
	Email                  string           `json:"email"`
	Phone                  string           `json:"phone"`
	Company                string           `json:"company"`
	Address                json.RawMessage  `json:"address"`
	ProjectDetails         json.RawMessage  `json:"projectDetails"`
	AdditionalRequirements string           `json:"additionalRequirements"`
	HearAboutUs            string           `json:"hearAboutUs"`
	Status                 string           `json:"status"`
	Priority               string           `json:"priority"`
	QuotedAmount           *decimal.Decimal `json:"quotedAmount"`
	FollowUpDate           *time.Time       `json:"followUpDate"`
	Products               []LeadProduct    `json:"products,omitempty"`
	Notes                  []Note           `json:"notes,omitempty"`
	CreatedAt              time.Time        `json:"createdAt"`
	UpdatedAt              time.Time        `json:"updatedAt"`
}

type Leads struct {
	Leads      []Lead `json:"leads"`
	TotalLeads int64  `json:"totalLeads"`
	TotalPages int    `json:"totalPages"`
	Page       int    `json:"currentPage"`
}
