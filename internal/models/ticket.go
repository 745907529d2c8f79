package models

import "time"

type TicketStatus string

const (
	TicketOpen       TicketStatus = "Open"
	TicketInProgress TicketStatus = "In Progress"
	TicketClosed     TicketStatus = "Closed"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "Low"
	PriorityMedium TicketPriority = "Medium"
	PriorityHigh   TicketPriority = "High"
	PriorityUrgent TicketPriority = "Urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type TicketCategory string

const (
	CategoryComplaint      TicketCategory = "Complaint"
	CategoryTechnicalIssue TicketCategory = "Technical Issue"
	CategoryPaymentQuery   TicketCategory = "Payment Query"
	CategoryFeatureRequest TicketCategory = "Feature Request"
	CategoryOther          TicketCategory = "Other"
)

func (c TicketCategory) Valid() bool {
	switch c {
	case CategoryComplaint, CategoryTechnicalIssue, CategoryPaymentQuery, CategoryFeatureRequest, CategoryOther:
		return true
	}
	return false
}

type TicketAuthor string

const (
	AuthorUser  TicketAuthor = "User"
	AuthorAdmin TicketAuthor = "Admin"
)

type TicketMessage struct {
	ID        int64        `json:"id"`
	TicketID  int64        `json:"ticket_id"`
	Author    TicketAuthor `json:"author"`
	Text      string       `json:"text"`
	Timestamp time.Time    `json:"timestamp"`
}

type SupportTicket struct {
	ID              int64           `json:"id"`
	UserID          int             `json:"user_id"`
	Subject         string          `json:"subject"`
	Category        TicketCategory  `json:"category"`
	Status          TicketStatus    `json:"status"`
	Priority        TicketPriority  `json:"priority"`
	AssignedAdminID *int            `json:"assigned_admin_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	LastUpdated     time.Time       `json:"last_updated"`
	Messages        []TicketMessage `json:"messages"`
}

// TicketFilter — nil fields are not applied.
type TicketFilter struct {
	UserID   *int
	Status   *TicketStatus
	Priority *TicketPriority
}
