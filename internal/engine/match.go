package engine

import (
	"sort"

	"github.com/spec-kit/crp-service/internal/domain"
)

const (
	leadBonus          = 20.0
	expertiseWeight    = 0.6
	coverageWeight     = 0.25
	dominanceThreshold = 0.70
)

// LeadCandidate pairs an engineer with their computed experience score.
type LeadCandidate struct {
	Engineer        *domain.Engineer
	ExperienceScore float64
}

// ThreadCandidate pairs an engineer with their normalized thread match score.
type ThreadCandidate struct {
	Engineer        *domain.Engineer
	MatchScore      int
	SkillsMatched   int
	NormalizedScore float64
}

// ExperienceScore computes the lead-ranking score of an engineer for a set
// of required skill tags:
//
//	averageExpertise*0.6 + skillCoverage*100*0.25 + leadBonus
//
// The result is deliberately not clamped; the lead bonus can push it past
// 100.
func ExperienceScore(engineer *domain.Engineer, tags []domain.SkillType) float64 {
	if len(tags) == 0 {
		return 0
	}
	totalExpertise := 0
	skillCount := 0
	for _, tag := range tags {
		level := engineer.ExpertiseIn(tag)
		totalExpertise += level
		if level > 0 {
			skillCount++
		}
	}
	averageExpertise := 0.0
	if skillCount > 0 {
		averageExpertise = float64(totalExpertise) / float64(skillCount)
	}
	skillCoverage := float64(skillCount) / float64(len(tags))
	score := averageExpertise*expertiseWeight + skillCoverage*100*coverageWeight
	if engineer.IsLeadEngineer {
		score += leadBonus
	}
	return score
}

// RankLeadCandidates scores and orders the eligible lead candidates for a
// set of skill tags. The pool is available lead engineers; when none exist
// it falls back to every available engineer so a ticket always gets a
// best-effort recommendation. Candidates with no relevant experience are
// dropped.
func RankLeadCandidates(tags []domain.SkillType, engineers []*domain.Engineer) []LeadCandidate {
	pool := make([]*domain.Engineer, 0, len(engineers))
	for _, engineer := range engineers {
		if engineer.IsLeadEngineer && engineer.Availability == domain.AvailabilityAvailable {
			pool = append(pool, engineer)
		}
	}
	if len(pool) == 0 {
		for _, engineer := range engineers {
			if engineer.Availability == domain.AvailabilityAvailable {
				pool = append(pool, engineer)
			}
		}
	}

	candidates := make([]LeadCandidate, 0, len(pool))
	for _, engineer := range pool {
		score := ExperienceScore(engineer, tags)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, LeadCandidate{Engineer: engineer, ExperienceScore: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ExperienceScore != b.ExperienceScore {
			return a.ExperienceScore > b.ExperienceScore
		}
		if a.Engineer.IsLeadEngineer != b.Engineer.IsLeadEngineer {
			return a.Engineer.IsLeadEngineer
		}
		return a.Engineer.CurrentWorkload < b.Engineer.CurrentWorkload
	})
	return candidates
}

// SelectLead returns the top-ranked lead recommendation, or nil when no
// candidate qualifies (empty pool, nobody available, or no relevant
// experience anywhere).
func SelectLead(tags []domain.SkillType, engineers []*domain.Engineer) *domain.Engineer {
	candidates := RankLeadCandidates(tags, engineers)
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0].Engineer
}

// IsDominantLead applies the strict 70% skill dominance rule: the
// engineer's single strongest skill among the ticket's tags must account
// for at least 70% of their total expertise across those tags. Used by
// auto-launch policy; independent of and stricter than SelectLead ranking.
func IsDominantLead(engineer *domain.Engineer, tags []domain.SkillType) bool {
	total := 0
	primary := 0
	for _, tag := range tags {
		level := engineer.ExpertiseIn(tag)
		total += level
		if level > primary {
			primary = level
		}
	}
	if total == 0 {
		return false
	}
	return float64(primary)/float64(total) >= dominanceThreshold
}

// RankThreadCandidates scores available engineers against a thread's
// required skills. The normalized score multiplies average expertise by the
// matched fraction, so partial coverage is penalized twice: an engineer
// matching one of three skills scores far below one matching all three at
// the same per-skill level.
func RankThreadCandidates(requiredSkills []domain.SkillType, engineers []*domain.Engineer) []ThreadCandidate {
	if len(requiredSkills) == 0 {
		return nil
	}
	candidates := make([]ThreadCandidate, 0, len(engineers))
	for _, engineer := range engineers {
		if engineer.Availability != domain.AvailabilityAvailable {
			continue
		}
		matchScore := 0
		skillsMatched := 0
		for _, skill := range requiredSkills {
			level := engineer.ExpertiseIn(skill)
			matchScore += level
			if level > 0 {
				skillsMatched++
			}
		}
		n := float64(len(requiredSkills))
		normalized := (float64(matchScore) / n) * (float64(skillsMatched) / n)
		candidates = append(candidates, ThreadCandidate{
			Engineer:        engineer,
			MatchScore:      matchScore,
			SkillsMatched:   skillsMatched,
			NormalizedScore: normalized,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.NormalizedScore != b.NormalizedScore {
			return a.NormalizedScore > b.NormalizedScore
		}
		if a.Engineer.CurrentWorkload != b.Engineer.CurrentWorkload {
			return a.Engineer.CurrentWorkload < b.Engineer.CurrentWorkload
		}
		return a.Engineer.ID < b.Engineer.ID
	})
	return candidates
}

// MatchEngineerForThread returns the best available engineer for a thread,
// or nil when nobody scores above zero.
func MatchEngineerForThread(requiredSkills []domain.SkillType, engineers []*domain.Engineer) *domain.Engineer {
	candidates := RankThreadCandidates(requiredSkills, engineers)
	if len(candidates) == 0 || candidates[0].NormalizedScore <= 0 {
		return nil
	}
	return candidates[0].Engineer
}
