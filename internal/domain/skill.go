package domain

// SkillType enumerates the skill vocabulary used for classification and matching.
type SkillType string

const (
	SkillDatabase    SkillType = "DATABASE"
	SkillBackend     SkillType = "BACKEND"
	SkillNetwork     SkillType = "NETWORK"
	SkillSecurity    SkillType = "SECURITY"
	SkillDevOps      SkillType = "DEVOPS"
	SkillIntegration SkillType = "INTEGRATION"
	SkillAnalytics   SkillType = "ANALYTICS"
	SkillMobile      SkillType = "MOBILE"
	SkillFrontend    SkillType = "FRONTEND"
	SkillCloud       SkillType = "CLOUD"
	SkillUX          SkillType = "UX"
)

// AllSkills lists every known skill in canonical order.
var AllSkills = []SkillType{
	SkillDatabase,
	SkillBackend,
	SkillNetwork,
	SkillSecurity,
	SkillDevOps,
	SkillIntegration,
	SkillAnalytics,
	SkillMobile,
	SkillFrontend,
	SkillCloud,
	SkillUX,
}

// IsValidSkill reports whether s is part of the known vocabulary.
func IsValidSkill(s SkillType) bool {
	for _, known := range AllSkills {
		if known == s {
			return true
		}
	}
	return false
}
