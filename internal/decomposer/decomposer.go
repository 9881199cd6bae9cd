// Package decomposer splits a classified ticket into ordered, skill-tagged
// issue threads. Related skills are grouped into one investigative thread
// rather than one thread per skill, so e.g. Database and Backend findings
// around a single root cause land in the same thread.
package decomposer

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/crp-service/internal/domain"
	apperrors "github.com/spec-kit/crp-service/pkg/util"
)

// cohesionGroup describes one investigative concern and the skills that
// belong to it. Groups are ordered root-cause first; thread priority decays
// with position in this causal chain.
type cohesionGroup struct {
	title       string
	description string
	skills      []domain.SkillType
}

// cohesionGroups covers the full skill vocabulary; every classified tag
// falls into exactly one group, which is what upholds the coverage
// guarantee (union of thread skills ⊇ ticket skill tags).
var cohesionGroups = []cohesionGroup{
	{
		title:       "Data layer investigation",
		description: "Investigate database, application backend and reporting behavior",
		skills:      []domain.SkillType{domain.SkillDatabase, domain.SkillBackend, domain.SkillAnalytics},
	},
	{
		title:       "Infrastructure and connectivity",
		description: "Verify network paths, cloud resources and deployment state",
		skills:      []domain.SkillType{domain.SkillNetwork, domain.SkillCloud, domain.SkillDevOps},
	},
	{
		title:       "Security review",
		description: "Assess access controls, certificates and possible compromise",
		skills:      []domain.SkillType{domain.SkillSecurity},
	},
	{
		title:       "Interface and integration checks",
		description: "Trace cross-system interfaces, middleware and message flows",
		skills:      []domain.SkillType{domain.SkillIntegration},
	},
	{
		title:       "User-facing experience",
		description: "Reproduce and fix client, mobile and usability issues",
		skills:      []domain.SkillType{domain.SkillFrontend, domain.SkillMobile, domain.SkillUX},
	},
}

const priorityDecayPerThread = 10

// Decompose produces the ordered issue threads for a classified ticket.
// Returns a PRECONDITION_FAILED error when the ticket has no classification
// yet, and a VALIDATION_FAILED error when the classification carries no
// skill tags to decompose.
func Decompose(ticket *domain.Ticket, now time.Time) ([]*domain.IssueThread, error) {
	if ticket == nil {
		return nil, apperrors.NewValidationError("ticket required", nil)
	}
	if ticket.Classification == nil {
		return nil, apperrors.NewPreconditionFailed("ticket is not classified", map[string]any{
			"ticket_id": ticket.ID,
		})
	}
	tags := ticket.Classification.SkillTags
	if len(tags) == 0 {
		return nil, apperrors.NewValidationError("classification has no skill tags", map[string]any{
			"ticket_id": ticket.ID,
		})
	}

	threads := make([]*domain.IssueThread, 0, len(cohesionGroups))
	for _, group := range cohesionGroups {
		skills := intersect(tags, group.skills)
		if len(skills) == 0 {
			continue
		}
		index := len(threads) + 1
		priority := ticket.Classification.UrgencyScore - priorityDecayPerThread*(index-1)
		if priority < 1 {
			priority = 1
		}
		threads = append(threads, &domain.IssueThread{
			ID:             domain.ThreadID(ticket.Sequence, index),
			ParentTicketID: ticket.ID,
			Title:          group.title,
			Description:    fmt.Sprintf("%s for %q (%s)", group.description, ticket.Subject, skillList(skills)),
			RequiredSkills: skills,
			Priority:       priority,
			Status:         domain.ThreadStatusOpen,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return threads, nil
}

// intersect keeps the members of tags that belong to group, preserving the
// discovery order from classification.
func intersect(tags, group []domain.SkillType) []domain.SkillType {
	out := []domain.SkillType{}
	for _, tag := range tags {
		for _, member := range group {
			if tag == member {
				out = append(out, tag)
				break
			}
		}
	}
	return out
}

func skillList(skills []domain.SkillType) string {
	parts := make([]string, 0, len(skills))
	for _, skill := range skills {
		parts = append(parts, string(skill))
	}
	return strings.Join(parts, ", ")
}
