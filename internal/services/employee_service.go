package services

import (
	"context"
	"sort"
	"strings"

	"maidscentre/internal/models"
	"maidscentre/internal/repositories"
)

type EmployeeService interface {
	Browse(ctx context.Context, client *models.ClientProfile, filter models.EmployeeFilter) ([]models.EmployeeCard, error)
	GetOwnProfile(ctx context.Context, userID int) (*models.EmployeeProfile, error)
	UpdateOwnProfile(ctx context.Context, userID int, upd *models.EmployeeProfile) (*models.EmployeeProfile, error)
	Team(ctx context.Context, client *models.ClientProfile) ([]*models.EmployeeProfile, error)
}

type employeeService struct {
	repo repositories.EmployeeRepository
}

func NewEmployeeService(repo repositories.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

// Browse: Premium-фильтры для Basic-клиента дают ErrPremiumRequired.
func (s *employeeService) Browse(ctx context.Context, client *models.ClientProfile, filter models.EmployeeFilter) ([]models.EmployeeCard, error) {
	if filter.UsesPremiumFilters() && !client.IsPremium() {
		return nil, ErrPremiumRequired
	}
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	list := FilterEmployees(all, filter)
	cards := make([]models.EmployeeCard, 0, len(list))
	for _, e := range list {
		cards = append(cards, e.Card())
	}
	return cards, nil
}

func (s *employeeService) GetOwnProfile(ctx context.Context, userID int) (*models.EmployeeProfile, error) {
	emp, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrNotFound
	}
	return emp, nil
}

// UpdateOwnProfile копирует только то, что сотрудник может менять сам.
// Рейтинг, проверки и бейджи выставляет платформа.
func (s *employeeService) UpdateOwnProfile(ctx context.Context, userID int, upd *models.EmployeeProfile) (*models.EmployeeProfile, error) {
	emp, err := s.GetOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(upd.Name); name != "" {
		emp.Name = name
	}
	if upd.Role != "" {
		emp.Role = upd.Role
	}
	if upd.Age < 0 || upd.Experience < 0 || upd.DesiredSalary < 0 || upd.DesiredOffDays < 0 {
		return nil, ErrInvalidInput
	}
	emp.Age = upd.Age
	emp.Religion = upd.Religion
	emp.Location = upd.Location
	emp.Experience = upd.Experience
	emp.Bio = upd.Bio
	emp.Skills = upd.Skills
	emp.Certifications = upd.Certifications
	if upd.Availability != "" {
		emp.Availability = upd.Availability
	}
	emp.Languages = upd.Languages
	emp.HasDriversLicense = upd.HasDriversLicense
	emp.HasDegreeOrDiploma = upd.HasDegreeOrDiploma
	emp.DesiredSalary = upd.DesiredSalary
	emp.DesiredOffDays = upd.DesiredOffDays
	emp.ProfilePictureURL = upd.ProfilePictureURL
	emp.VideoIntroductionURL = upd.VideoIntroductionURL
	emp.PreferredLanguage = upd.PreferredLanguage

	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *employeeService) Team(ctx context.Context, client *models.ClientProfile) ([]*models.EmployeeProfile, error) {
	if len(client.HiredEmployeeIDs) == 0 {
		return []*models.EmployeeProfile{}, nil
	}
	return s.repo.ListByIDs(ctx, client.HiredEmployeeIDs)
}

func anyValue(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func matchesEmployee(e *models.EmployeeProfile, f models.EmployeeFilter) bool {
	if !anyValue(f.Role) && !strings.EqualFold(string(e.Role), f.Role) {
		return false
	}
	if !anyValue(f.Location) && !containsFold(e.Location, strings.TrimSpace(f.Location)) {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		hit := containsFold(e.Name, q)
		for _, skill := range e.Skills {
			if hit {
				break
			}
			hit = containsFold(skill, q)
		}
		if !hit {
			return false
		}
	}
	if !anyValue(f.Availability) && !strings.EqualFold(string(e.Availability), f.Availability) {
		return false
	}
	if !anyValue(f.Language) {
		found := false
		for _, l := range e.Languages {
			if strings.EqualFold(l, f.Language) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c := strings.TrimSpace(f.Certification); c != "" {
		found := false
		for _, cert := range e.Certifications {
			if containsFold(cert, c) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	switch {
	case f.Verified && !e.Verified,
		f.BackgroundChecked && !e.BackgroundChecked,
		f.PoliceClearance && !e.PoliceClearanceVerified,
		f.DriversLicense && !e.HasDriversLicense,
		f.ReferenceChecked && !e.ReferenceChecked,
		f.MedicalClearance && !e.MedicalClearance,
		f.EliteOnly && !e.HasBadge(models.BadgeEliteWorker):
		return false
	}
	return true
}

// FilterEmployees не меняет входной слайс. Сортировка по убыванию, rating по умолчанию.
func FilterEmployees(all []*models.EmployeeProfile, f models.EmployeeFilter) []*models.EmployeeProfile {
	out := make([]*models.EmployeeProfile, 0, len(all))
	for _, e := range all {
		if matchesEmployee(e, f) {
			out = append(out, e)
		}
	}
	if strings.EqualFold(f.SortBy, "experience") {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Experience > out[j].Experience })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

// ComputeProfileStrength — шкала из дашборда сотрудника, максимум 100.
func ComputeProfileStrength(e *models.EmployeeProfile) models.ProfileStrength {
	score := 0
	if len(e.Bio) > 50 {
		score += 15
	}
	if len(e.Skills) > 0 {
		score += 15
	}
	if len(e.Certifications) > 0 {
		score += 15
	}
	if e.ProfilePictureURL != "" {
		score += 15
	}
	if e.ReviewCount > 0 {
		score += 15
	}
	if e.PoliceClearanceVerified {
		score += 5
	}
	if e.ReferenceChecked {
		score += 10
	}
	if e.MedicalClearance {
		score += 10
	}
	if score > 100 {
		score = 100
	}

	label := "Needs Improvement"
	switch {
	case score >= 100:
		label = "Excellent"
	case score >= 80:
		label = "Strong"
	case score >= 50:
		label = "Good"
	}
	return models.ProfileStrength{Score: score, Label: label}
}
