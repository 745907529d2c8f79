package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maidscentre/internal/models"
)

func sampleEmployees() []*models.EmployeeProfile {
	return []*models.EmployeeProfile{
		{ID: 1, Name: "Chipo Banda", Role: models.CategoryMaid, Location: "Harare, Avondale", Experience: 5, Rating: 4.5,
			Skills: []string{"Ironing", "Laundry"}, Languages: []string{"English", "Shona"}, Verified: true,
			Availability: models.AvailabilityFullTime, Certifications: []string{"First Aid Level 1"}},
		{ID: 2, Name: "Farai Ncube", Role: models.CategoryDriver, Location: "Bulawayo", Experience: 12, Rating: 4.1,
			Skills: []string{"Defensive driving"}, Languages: []string{"English", "Ndebele"}, HasDriversLicense: true,
			Availability: models.AvailabilityPartTime, Badges: []models.BadgeType{models.BadgeEliteWorker}},
		{ID: 3, Name: "Tariro Moyo", Role: models.CategoryCook, Location: "Harare, Borrowdale", Experience: 8, Rating: 4.9,
			Skills: []string{"Baking", "Meal prep"}, Languages: []string{"Shona"}, ReferenceChecked: true,
			MedicalClearance: true, PoliceClearanceVerified: true, BackgroundChecked: true,
			Availability: models.AvailabilityFullTime},
	}
}

func ids(list []*models.EmployeeProfile) []int {
	out := make([]int, 0, len(list))
	for _, e := range list {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterEmployees(t *testing.T) {
	all := sampleEmployees()

	cases := []struct {
		name   string
		filter models.EmployeeFilter
		want   []int
	}{
		{"no filter sorts by rating", models.EmployeeFilter{}, []int{3, 1, 2}},
		{"sort by experience", models.EmployeeFilter{SortBy: "experience"}, []int{2, 3, 1}},
		{"role all is any", models.EmployeeFilter{Role: "All"}, []int{3, 1, 2}},
		{"role", models.EmployeeFilter{Role: "Driver"}, []int{2}},
		{"location substring", models.EmployeeFilter{Location: "harare"}, []int{3, 1}},
		{"search by name", models.EmployeeFilter{Search: "moyo"}, []int{3}},
		{"search by skill", models.EmployeeFilter{Search: "iron"}, []int{1}},
		{"language", models.EmployeeFilter{Language: "Ndebele"}, []int{2}},
		{"availability", models.EmployeeFilter{Availability: "Full-time"}, []int{3, 1}},
		{"certification substring", models.EmployeeFilter{Certification: "first aid"}, []int{1}},
		{"verified", models.EmployeeFilter{Verified: true}, []int{1}},
		{"police clearance", models.EmployeeFilter{PoliceClearance: true}, []int{3}},
		{"drivers license", models.EmployeeFilter{DriversLicense: true}, []int{2}},
		{"elite", models.EmployeeFilter{EliteOnly: true}, []int{2}},
		{"combined", models.EmployeeFilter{Location: "Harare", ReferenceChecked: true, MedicalClearance: true}, []int{3}},
		{"nothing matches", models.EmployeeFilter{Role: "Gardener"}, []int{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(FilterEmployees(all, tc.filter)))
		})
	}

	// входной слайс не переставлен
	assert.Equal(t, []int{1, 2, 3}, ids(all))
}

func TestBrowse_PremiumFiltersNeedPremium(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployees(sampleEmployees()...))
	ctx := context.Background()
	basic := &models.ClientProfile{Subscription: models.PlanBasic}
	premium := &models.ClientProfile{Subscription: models.PlanPremium}

	_, err := svc.Browse(ctx, basic, models.EmployeeFilter{EliteOnly: true})
	assert.ErrorIs(t, err, ErrPremiumRequired)

	cards, err := svc.Browse(ctx, premium, models.EmployeeFilter{EliteOnly: true})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Farai Ncube", cards[0].Name)

	cards, err = svc.Browse(ctx, basic, models.EmployeeFilter{Verified: true})
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestComputeProfileStrength(t *testing.T) {
	empty := ComputeProfileStrength(&models.EmployeeProfile{})
	assert.Equal(t, models.ProfileStrength{Score: 0, Label: "Needs Improvement"}, empty)

	good := ComputeProfileStrength(&models.EmployeeProfile{
		Bio:               strings.Repeat("x", 51),
		Skills:            []string{"Cooking"},
		Certifications:    []string{"Food safety"},
		ProfilePictureURL: "https://example.com/p.jpg",
	})
	assert.Equal(t, 60, good.Score)
	assert.Equal(t, "Good", good.Label)

	strong := ComputeProfileStrength(&models.EmployeeProfile{
		Bio:                     strings.Repeat("x", 51),
		Skills:                  []string{"Cooking"},
		Certifications:          []string{"Food safety"},
		ProfilePictureURL:       "https://example.com/p.jpg",
		ReviewCount:             3,
		PoliceClearanceVerified: true,
	})
	assert.Equal(t, 80, strong.Score)
	assert.Equal(t, "Strong", strong.Label)

	full := ComputeProfileStrength(&models.EmployeeProfile{
		Bio:                     strings.Repeat("x", 80),
		Skills:                  []string{"Cooking"},
		Certifications:          []string{"Food safety"},
		ProfilePictureURL:       "https://example.com/p.jpg",
		ReviewCount:             3,
		PoliceClearanceVerified: true,
		ReferenceChecked:        true,
		MedicalClearance:        true,
	})
	assert.Equal(t, models.ProfileStrength{Score: 100, Label: "Excellent"}, full)

	// ровно 50 символов не засчитываются
	short := ComputeProfileStrength(&models.EmployeeProfile{Bio: strings.Repeat("x", 50)})
	assert.Equal(t, 0, short.Score)
}

func TestUpdateOwnProfile_KeepsPlatformFields(t *testing.T) {
	repo := newFakeEmployees(&models.EmployeeProfile{ID: 5, UserID: 50, Name: "Rumbi", Verified: true, Rating: 4.7,
		Badges: []models.BadgeType{models.BadgeTopRated}})
	svc := NewEmployeeService(repo)

	got, err := svc.UpdateOwnProfile(context.Background(), 50, &models.EmployeeProfile{
		Name: "Rumbi M.", Bio: "Ten years in childcare", Verified: false, Rating: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Rumbi M.", got.Name)
	assert.Equal(t, "Ten years in childcare", got.Bio)
	assert.True(t, got.Verified)
	assert.Equal(t, 4.7, got.Rating)
	assert.Equal(t, []models.BadgeType{models.BadgeTopRated}, got.Badges)

	_, err = svc.UpdateOwnProfile(context.Background(), 51, &models.EmployeeProfile{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTeam(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployees(sampleEmployees()...))

	team, err := svc.Team(context.Background(), &models.ClientProfile{HiredEmployeeIDs: []int{3, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, ids(team))

	team, err = svc.Team(context.Background(), &models.ClientProfile{})
	require.NoError(t, err)
	assert.Empty(t, team)
}
