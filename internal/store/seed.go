package store

import "github.com/spec-kit/crp-service/internal/domain"

// SeedRoster loads the fixed demo roster. Availability is derived from the
// initial workload on load.
func SeedRoster(s *Store) error {
	for _, engineer := range demoRoster() {
		engineer.RecomputeAvailability()
		if err := s.AddEngineer(engineer); err != nil {
			return err
		}
	}
	return nil
}

func demoRoster() []*domain.Engineer {
	return []*domain.Engineer{
		{
			ID: "ENG-001", Name: "Anna Schmidt", Department: "Platform Services", Email: "anna.schmidt@example.com",
			Skills: []domain.SkillType{domain.SkillDatabase, domain.SkillBackend, domain.SkillAnalytics},
			Expertise: map[domain.SkillType]int{
				domain.SkillDatabase: 95, domain.SkillBackend: 72, domain.SkillAnalytics: 60,
			},
			CurrentWorkload: 35, IsLeadEngineer: true,
		},
		{
			ID: "ENG-002", Name: "Marcus Weber", Department: "Infrastructure", Email: "marcus.weber@example.com",
			Skills: []domain.SkillType{domain.SkillNetwork, domain.SkillSecurity, domain.SkillCloud},
			Expertise: map[domain.SkillType]int{
				domain.SkillNetwork: 90, domain.SkillSecurity: 84, domain.SkillCloud: 68,
			},
			CurrentWorkload: 50, IsLeadEngineer: true,
		},
		{
			ID: "ENG-003", Name: "Priya Raghavan", Department: "Integration", Email: "priya.raghavan@example.com",
			Skills: []domain.SkillType{domain.SkillIntegration, domain.SkillBackend, domain.SkillDevOps},
			Expertise: map[domain.SkillType]int{
				domain.SkillIntegration: 92, domain.SkillBackend: 65, domain.SkillDevOps: 58,
			},
			CurrentWorkload: 20, IsLeadEngineer: true,
		},
		{
			ID: "ENG-004", Name: "Tomasz Kowalski", Department: "Platform Services", Email: "tomasz.kowalski@example.com",
			Skills: []domain.SkillType{domain.SkillDatabase, domain.SkillDevOps},
			Expertise: map[domain.SkillType]int{
				domain.SkillDatabase: 78, domain.SkillDevOps: 81,
			},
			CurrentWorkload: 65,
		},
		{
			ID: "ENG-005", Name: "Lucia Moreno", Department: "Experience", Email: "lucia.moreno@example.com",
			Skills: []domain.SkillType{domain.SkillFrontend, domain.SkillUX, domain.SkillMobile},
			Expertise: map[domain.SkillType]int{
				domain.SkillFrontend: 88, domain.SkillUX: 80, domain.SkillMobile: 62,
			},
			CurrentWorkload: 30,
		},
		{
			ID: "ENG-006", Name: "Kenji Nakamura", Department: "Security Office", Email: "kenji.nakamura@example.com",
			Skills: []domain.SkillType{domain.SkillSecurity, domain.SkillNetwork},
			Expertise: map[domain.SkillType]int{
				domain.SkillSecurity: 93, domain.SkillNetwork: 55,
			},
			CurrentWorkload: 45,
		},
		{
			ID: "ENG-007", Name: "Sofia Lindqvist", Department: "Analytics", Email: "sofia.lindqvist@example.com",
			Skills: []domain.SkillType{domain.SkillAnalytics, domain.SkillDatabase, domain.SkillCloud},
			Expertise: map[domain.SkillType]int{
				domain.SkillAnalytics: 86, domain.SkillDatabase: 54, domain.SkillCloud: 49,
			},
			CurrentWorkload: 85,
		},
		{
			ID: "ENG-008", Name: "David Okafor", Department: "Integration", Email: "david.okafor@example.com",
			Skills: []domain.SkillType{domain.SkillIntegration, domain.SkillCloud, domain.SkillBackend},
			Expertise: map[domain.SkillType]int{
				domain.SkillIntegration: 70, domain.SkillCloud: 75, domain.SkillBackend: 60,
			},
			CurrentWorkload: 15,
		},
	}
}
