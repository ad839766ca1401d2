package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"brandpost/internal/domain"
)

// ProfileService manages the branding profile and produces the mock profile
// analysis used to flavor content suggestions.
type ProfileService struct {
	profiles ProfileStore
	logger   *slog.Logger
}

func NewProfileService(profiles ProfileStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		logger:   logger.With("component", "profile"),
	}
}

func (s *ProfileService) Create(ctx context.Context, name string, headline, about *string) (*domain.Profile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidState)
	}

	profile := &domain.Profile{
		Name:     name,
		Headline: headline,
		About:    about,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.logger.Info("created profile", "profile_id", profile.ID)
	return profile, nil
}

func (s *ProfileService) Get(ctx context.Context) (*domain.Profile, error) {
	return s.profiles.GetFirst(ctx)
}

// Analyze returns a mock skills/interests breakdown for the stored profile,
// or a demo profile when none exists.
func (s *ProfileService) Analyze(ctx context.Context) (*domain.ProfileAnalysis, error) {
	profile, err := s.profiles.GetFirst(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return demoAnalysis(), nil
	}
	if err != nil {
		return nil, err
	}

	analysis := &domain.ProfileAnalysis{
		Name:       profile.Name,
		Headline:   "Professional",
		About:      "LinkedIn user",
		Skills:     extractSkills(profile),
		Interests:  extractInterests(profile),
		Experience: "Experience level unknown",
	}
	if profile.Headline != nil && *profile.Headline != "" {
		analysis.Headline = *profile.Headline
	}
	if profile.About != nil && *profile.About != "" {
		analysis.About = *profile.About
	}

	return analysis, nil
}

func demoAnalysis() *domain.ProfileAnalysis {
	return &domain.ProfileAnalysis{
		Name:       "Demo User",
		Headline:   "AI Enthusiast & Developer",
		About:      "Passionate about AI and technology. Sharing insights on LinkedIn.",
		Skills:     []string{"AI", "Machine Learning", "Python", "Data Science"},
		Interests:  []string{"Technology", "Innovation", "Startups"},
		Experience: "5+ years in tech industry",
	}
}

func extractSkills(profile *domain.Profile) []string {
	skills := []string{"Communication", "Leadership", "Problem Solving", "Teamwork"}

	if profile.About != nil {
		about := strings.ToLower(*profile.About)
		if strings.Contains(about, "ai") || strings.Contains(about, "artificial intelligence") {
			skills = append(skills, "AI", "Machine Learning")
		}
		if strings.Contains(about, "data") {
			skills = append(skills, "Data Analysis", "Statistics")
		}
		if strings.Contains(about, "python") {
			skills = append(skills, "Python")
		}
		if strings.Contains(about, "marketing") {
			skills = append(skills, "Digital Marketing", "Content Strategy")
		}
	}

	if len(skills) > 5 {
		skills = skills[:5]
	}
	return skills
}

func extractInterests(profile *domain.Profile) []string {
	interests := []string{"Technology", "Innovation", "Professional Development"}

	if profile.About != nil {
		about := strings.ToLower(*profile.About)
		if strings.Contains(about, "ai") || strings.Contains(about, "artificial intelligence") {
			interests = append(interests, "AI Research", "Machine Learning")
		}
		if strings.Contains(about, "data") {
			interests = append(interests, "Data Science")
		}
		if strings.Contains(about, "startup") {
			interests = append(interests, "Entrepreneurship")
		}
		if strings.Contains(about, "marketing") {
			interests = append(interests, "Digital Marketing", "Personal Branding")
		}
	}

	if len(interests) > 4 {
		interests = interests[:4]
	}
	return interests
}
