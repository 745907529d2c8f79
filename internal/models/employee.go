package models

import "time"

type JobCategory string

const (
	CategoryMaid          JobCategory = "Maid"
	CategoryCook          JobCategory = "Cook"
	CategoryChef          JobCategory = "Chef"
	CategoryCleaner       JobCategory = "Cleaner"
	CategoryDriver        JobCategory = "Driver"
	CategoryNurseAide     JobCategory = "Nurse Aide"
	CategoryGardener      JobCategory = "Gardener"
	CategorySecurityGuard JobCategory = "Security Guard"
	CategoryBabyMinder    JobCategory = "Baby Minder"
)

type AvailabilityStatus string

const (
	AvailabilityFullTime     AvailabilityStatus = "Full-time"
	AvailabilityPartTime     AvailabilityStatus = "Part-time"
	AvailabilityContract     AvailabilityStatus = "Contract"
	AvailabilityImmediately  AvailabilityStatus = "Available Immediately"
	AvailabilityNotAvailable AvailabilityStatus = "Not Available"
)

type BadgeType string

const (
	BadgeTopRated         BadgeType = "Top Rated"
	BadgeFivePlusJobs     BadgeType = "5+ Jobs Completed"
	BadgeReferralStar     BadgeType = "Referral Star"
	BadgeEliteWorker      BadgeType = "Elite Worker"
	BadgePoliceClearance  BadgeType = "Police Clearance Verified"
	BadgeReferenceChecked BadgeType = "Reference Checked"
	BadgeMedicalClearance BadgeType = "Medical Clearance"
	BadgePremiumEmployee  BadgeType = "Premium Employee"
)

// EmployeeProfile — domestic worker listing.
type EmployeeProfile struct {
	ID                      int                `json:"id"`
	UserID                  int                `json:"user_id"`
	Name                    string             `json:"name"`
	Role                    JobCategory        `json:"role"`
	Age                     int                `json:"age"`
	Religion                string             `json:"religion"`
	Location                string             `json:"location"`
	Experience              int                `json:"experience"` // years
	Rating                  float64            `json:"rating"`
	ReviewCount             int                `json:"review_count"`
	Bio                     string             `json:"bio"`
	Skills                  []string           `json:"skills"`
	Certifications          []string           `json:"certifications"`
	Availability            AvailabilityStatus `json:"availability"`
	Languages               []string           `json:"languages"`
	Verified                bool               `json:"verified"`
	BackgroundChecked       bool               `json:"background_checked"`
	PoliceClearanceVerified bool               `json:"police_clearance_verified"`
	ReferenceChecked        bool               `json:"reference_checked"`
	MedicalClearance        bool               `json:"medical_clearance"`
	HasDriversLicense       bool               `json:"has_drivers_license"`
	HasDegreeOrDiploma      bool               `json:"has_degree_or_diploma"`
	DesiredSalary           float64            `json:"desired_salary"`
	DesiredOffDays          int                `json:"desired_off_days"`
	ProfilePictureURL       string             `json:"profile_picture_url"`
	VideoIntroductionURL    string             `json:"video_introduction_url,omitempty"`
	PreferredLanguage       string             `json:"preferred_language"`
	CompletedJobs           int                `json:"completed_jobs"`
	Badges                  []BadgeType        `json:"badges"`
	CreatedAt               time.Time          `json:"created_at"`
}

func (e *EmployeeProfile) HasBadge(b BadgeType) bool {
	for _, have := range e.Badges {
		if have == b {
			return true
		}
	}
	return false
}

// EmployeeCard — what the browse listing shows before a profile is opened.
type EmployeeCard struct {
	ID                int                `json:"id"`
	Name              string             `json:"name"`
	Role              JobCategory        `json:"role"`
	Location          string             `json:"location"`
	Experience        int                `json:"experience"`
	Rating            float64            `json:"rating"`
	Availability      AvailabilityStatus `json:"availability"`
	Verified          bool               `json:"verified"`
	ProfilePictureURL string             `json:"profile_picture_url"`
	Badges            []BadgeType        `json:"badges"`
}

func (e *EmployeeProfile) Card() EmployeeCard {
	return EmployeeCard{
		ID:                e.ID,
		Name:              e.Name,
		Role:              e.Role,
		Location:          e.Location,
		Experience:        e.Experience,
		Rating:            e.Rating,
		Availability:      e.Availability,
		Verified:          e.Verified,
		ProfilePictureURL: e.ProfilePictureURL,
		Badges:            e.Badges,
	}
}

// EmployeeFilter defines the browse filters. Empty strings / false mean "any".
type EmployeeFilter struct {
	Search            string
	Role              string
	Location          string
	Availability      string
	Language          string
	Certification     string
	Verified          bool
	BackgroundChecked bool
	PoliceClearance   bool

	// Premium-only
	DriversLicense   bool
	ReferenceChecked bool
	MedicalClearance bool
	EliteOnly        bool

	SortBy string // rating | experience
}

func (f EmployeeFilter) UsesPremiumFilters() bool {
	return f.DriversLicense || f.ReferenceChecked || f.MedicalClearance || f.EliteOnly
}

type ProfileStrength struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}
