package models

import "time"

type SubscriptionPlan string

const (
	PlanBasic   SubscriptionPlan = "Basic"
	PlanPremium SubscriptionPlan = "Premium"
)

type HireType string

const (
	HireLongTerm HireType = "long-term"
	HireOnceOff  HireType = "once-off"
)

func (t HireType) Valid() bool {
	return t == HireLongTerm || t == HireOnceOff
}

// HireIntent is remembered when a hire attempt has to go through the access
// payment first.
type HireIntent struct {
	EmployeeID int      `json:"employee_id"`
	HireType   HireType `json:"hire_type"`
}

type HouseholdDetails struct {
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
	Pets     string `json:"pets"`
}

// ClientProfile — household or business looking for help.
type ClientProfile struct {
	ID                int              `json:"id"`
	UserID            int              `json:"user_id"`
	Name              string           `json:"name"`
	ProfilePictureURL string           `json:"profile_picture_url"`
	Location          string           `json:"location"`
	Bio               string           `json:"bio"`
	Household         HouseholdDetails `json:"household_details"`
	PreferredLanguage string           `json:"preferred_language"`
	Subscription      SubscriptionPlan `json:"subscription"`
	MemberSince       time.Time        `json:"member_since"`
	HiredEmployeeIDs  []int            `json:"hired_employee_ids"`

	// пишет только access-гейт
	HasPaidForAccess   bool        `json:"has_paid_for_access"`
	AccessStartDate    *time.Time  `json:"access_start_date"`
	ViewedProfileCount int         `json:"viewed_profile_count"`
	PendingHire        *HireIntent `json:"pending_hire,omitempty"`
}

func (c *ClientProfile) IsPremium() bool {
	return c.Subscription == PlanPremium
}

func (c *ClientProfile) HasHired(employeeID int) bool {
	for _, id := range c.HiredEmployeeIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}

type CorporateProfile struct {
	ID          int      `json:"id"`
	UserID      int      `json:"user_id"`
	CompanyName string   `json:"company_name"`
	Industry    string   `json:"industry"`
	Locations   []string `json:"locations"`
}
