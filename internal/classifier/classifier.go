// Package classifier produces deterministic, rule-based ticket
// classifications: an urgency score, a complexity tier and an ordered set
// of skill tags derived from keyword matching. It is a pure computation
// with no side effects, so the same ticket text always classifies the same
// way.
package classifier

import (
	"sort"
	"strings"

	"github.com/spec-kit/crp-service/internal/domain"
)

const (
	severityBoost     = 8
	maxSeverityBoost  = 24
	complexityHighAt  = 70
	complexityMedAt   = 40
	confidenceBase    = 50
	confidencePerTag  = 10
	confidenceCeiling = 95
	confidenceLow     = 25
)

// Input carries the ticket fields the classifier inspects.
type Input struct {
	Subject        string
	Description    string
	Urgency        domain.TicketUrgency
	AffectedSystem string
}

// Classify scores a ticket. It never fails: empty or ambiguous input yields
// the conservative default (Medium complexity, no tags, Standard routing,
// low confidence).
func Classify(in Input) domain.Classification {
	text := strings.ToLower(strings.Join([]string{in.Subject, in.Description, in.AffectedSystem}, " "))

	if strings.TrimSpace(strings.ToLower(in.Subject)+strings.ToLower(in.Description)) == "" {
		return domain.Classification{
			UrgencyScore:       baseScore(in.Urgency),
			ComplexityEstimate: domain.ComplexityMedium,
			SkillTags:          []domain.SkillType{},
			RecommendedAction:  domain.ActionStandard,
			ConfidenceScore:    confidenceLow,
		}
	}

	score := baseScore(in.Urgency)
	boost := 0
	for _, term := range severityKeywords {
		if strings.Contains(text, term) {
			boost += severityBoost
		}
	}
	if boost > maxSeverityBoost {
		boost = maxSeverityBoost
	}
	score += boost
	if score > 100 {
		score = 100
	}

	tags := discoverSkillTags(text)

	complexity := domain.ComplexityLow
	switch {
	case score >= complexityHighAt:
		complexity = domain.ComplexityHigh
	case score >= complexityMedAt:
		complexity = domain.ComplexityMedium
	}

	action := domain.ActionStandard
	if complexity == domain.ComplexityHigh || len(tags) >= 2 {
		action = domain.ActionCRP
	}

	confidence := confidenceBase + confidencePerTag*len(tags)
	if confidence > confidenceCeiling {
		confidence = confidenceCeiling
	}
	if len(tags) == 0 {
		confidence = confidenceLow
	}

	return domain.Classification{
		UrgencyScore:       score,
		ComplexityEstimate: complexity,
		SkillTags:          tags,
		RecommendedAction:  action,
		ConfidenceScore:    confidence,
	}
}

func baseScore(urgency domain.TicketUrgency) int {
	if base, ok := urgencyBaseScores[urgency]; ok {
		return base
	}
	return urgencyBaseScores[domain.UrgencyMedium]
}

// discoverSkillTags returns the skills whose keywords appear in text,
// ordered by first occurrence and de-duplicated. Ties on position fall back
// to canonical vocabulary order so output stays stable.
func discoverSkillTags(text string) []domain.SkillType {
	type hit struct {
		skill domain.SkillType
		pos   int
		rank  int
	}
	hits := make([]hit, 0, len(domain.AllSkills))
	for rank, skill := range domain.AllSkills {
		earliest := -1
		for _, keyword := range skillKeywords[skill] {
			if idx := strings.Index(text, keyword); idx >= 0 {
				if earliest < 0 || idx < earliest {
					earliest = idx
				}
			}
		}
		if earliest >= 0 {
			hits = append(hits, hit{skill: skill, pos: earliest, rank: rank})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].rank < hits[j].rank
	})
	tags := make([]domain.SkillType, 0, len(hits))
	for _, h := range hits {
		tags = append(tags, h.skill)
	}
	return tags
}
