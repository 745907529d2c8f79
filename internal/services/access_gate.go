package services

import (
	"time"

	"maidscentre/internal/config"
	"maidscentre/internal/models"
)

// HasValidAccess не меняет client: истёкший доступ просто даёт false.
// Сброс полей делает ExpireIfLapsed.
func HasValidAccess(client *models.ClientProfile, now time.Time, period time.Duration) bool {
	if client == nil || !client.HasPaidForAccess || client.AccessStartDate == nil {
		return false
	}
	return now.Sub(*client.AccessStartDate) <= period
}

// accessLapsed — оплачено, но окно закончилось (или дата потерялась).
func accessLapsed(client *models.ClientProfile, now time.Time, period time.Duration) bool {
	return client.HasPaidForAccess && !HasValidAccess(client, now, period)
}

// PlacementFee depends only on the hire type and the Premium badge.
func PlacementFee(employee *models.EmployeeProfile, hireType models.HireType, fees config.FeesConfig) float64 {
	if hireType == models.HireOnceOff {
		return fees.OnceOff
	}
	if employee.HasBadge(models.BadgePremiumEmployee) {
		return fees.LongTermPremium
	}
	return fees.LongTerm
}

func HireDescription(employee *models.EmployeeProfile, hireType models.HireType) string {
	if hireType == models.HireOnceOff {
		return "Once-off hire fee for " + employee.Name
	}
	return "Placement fee for " + employee.Name
}

type AccessStatus struct {
	HasValidAccess     bool               `json:"has_valid_access"`
	Lapsed             bool               `json:"lapsed"`
	AccessStartDate    *time.Time         `json:"access_start_date"`
	AccessExpiresAt    *time.Time         `json:"access_expires_at"`
	ViewedProfileCount int                `json:"viewed_profile_count"`
	ProfileViewLimit   int                `json:"profile_view_limit"`
	ViewsRemaining     int                `json:"views_remaining"`
	AccessFee          float64            `json:"access_fee"`
	Currency           string             `json:"currency"`
	PendingHire        *models.HireIntent `json:"pending_hire,omitempty"`
}

func BuildAccessStatus(client *models.ClientProfile, now time.Time, gating config.GatingConfig, currency string) AccessStatus {
	period := gating.AccessPeriod()
	st := AccessStatus{
		HasValidAccess:     HasValidAccess(client, now, period),
		Lapsed:             accessLapsed(client, now, period),
		AccessStartDate:    client.AccessStartDate,
		ViewedProfileCount: client.ViewedProfileCount,
		ProfileViewLimit:   gating.ProfileViewLimit,
		AccessFee:          gating.AccessFee,
		Currency:           currency,
		PendingHire:        client.PendingHire,
	}
	if client.AccessStartDate != nil {
		exp := client.AccessStartDate.Add(period)
		st.AccessExpiresAt = &exp
	}
	if st.HasValidAccess {
		st.ViewsRemaining = -1 // без лимита
	} else if left := gating.ProfileViewLimit - client.ViewedProfileCount; left > 0 {
		st.ViewsRemaining = left
	}
	return st
}
