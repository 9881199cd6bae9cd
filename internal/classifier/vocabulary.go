package classifier

import (
	"github.com/spec-kit/crp-service/internal/domain"
)

// skillKeywords maps each skill to the lowercase terms that signal it in
// ticket text. Scanned against subject, description and affected system.
var skillKeywords = map[domain.SkillType][]string{
	domain.SkillDatabase: {
		"database", "hana", "sql", "query", "table", "deadlock", "index corruption", "tablespace",
	},
	domain.SkillBackend: {
		"backend", "abap", "server", "api timeout", "service crash", "application error", "dump", "job failure",
	},
	domain.SkillNetwork: {
		"network", "latency", "packet", "dns", "vpn", "connection refused", "timeout", "unreachable",
	},
	domain.SkillSecurity: {
		"security", "breach", "unauthorized", "vulnerability", "phishing", "certificate", "authentication failure", "exploit",
	},
	domain.SkillDevOps: {
		"deployment", "pipeline", "kubernetes", "container", "ci/cd", "rollback", "release",
	},
	domain.SkillIntegration: {
		"integration", "interface", "idoc", "middleware", "rfc", "webhook", "sync failure", "mapping",
	},
	domain.SkillAnalytics: {
		"analytics", "report", "dashboard", "bw", "etl", "data warehouse", "kpi",
	},
	domain.SkillMobile: {
		"mobile", "ios", "android", "app store", "push notification",
	},
	domain.SkillFrontend: {
		"frontend", "fiori", "ui5", "browser", "rendering", "screen", "button",
	},
	domain.SkillCloud: {
		"cloud", "btp", "aws", "azure", "s3", "scaling", "quota",
	},
	domain.SkillUX: {
		"usability", "accessibility", "user experience", "navigation", "layout",
	},
}

// severityKeywords raise the urgency score when present in ticket text.
var severityKeywords = []string{
	"outage", "down", "crash", "breach", "data loss", "production", "all users",
	"cannot access", "critical", "blocked", "corrupt", "failure", "emergency",
}

// urgencyBaseScores anchors the urgency score to the declared urgency level.
var urgencyBaseScores = map[domain.TicketUrgency]int{
	domain.UrgencyLow:      20,
	domain.UrgencyMedium:   40,
	domain.UrgencyHigh:     65,
	domain.UrgencyCritical: 85,
}
