package classifier

import (
	"reflect"
	"testing"

	"github.com/spec-kit/crp-service/internal/domain"
)

func TestClassifyEmptyInput(t *testing.T) {
	got := Classify(Input{Urgency: domain.UrgencyHigh})

	if got.UrgencyScore != 65 {
		t.Errorf("UrgencyScore = %d, want 65", got.UrgencyScore)
	}
	if got.ComplexityEstimate != domain.ComplexityMedium {
		t.Errorf("ComplexityEstimate = %s, want MEDIUM", got.ComplexityEstimate)
	}
	if len(got.SkillTags) != 0 {
		t.Errorf("SkillTags = %v, want empty", got.SkillTags)
	}
	if got.RecommendedAction != domain.ActionStandard {
		t.Errorf("RecommendedAction = %s, want STANDARD", got.RecommendedAction)
	}
	if got.ConfidenceScore != 25 {
		t.Errorf("ConfidenceScore = %d, want 25", got.ConfidenceScore)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	in := Input{
		Subject:     "Network outage after deployment",
		Description: "VPN unreachable for all users since the last release",
		Urgency:     domain.UrgencyHigh,
	}
	first := Classify(in)
	second := Classify(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classification not deterministic:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestClassifyUrgencyBaseScores(t *testing.T) {
	tests := []struct {
		urgency   domain.TicketUrgency
		wantScore int
	}{
		{domain.UrgencyLow, 20},
		{domain.UrgencyMedium, 40},
		{domain.UrgencyHigh, 65},
		{domain.UrgencyCritical, 85},
		{"", 40},
	}
	for _, tt := range tests {
		t.Run(string(tt.urgency), func(t *testing.T) {
			// Wording with no severity or skill keywords keeps the base intact.
			got := Classify(Input{
				Subject: "Printer icon looks wrong",
				Urgency: tt.urgency,
			})
			if got.UrgencyScore != tt.wantScore {
				t.Errorf("UrgencyScore = %d, want %d", got.UrgencyScore, tt.wantScore)
			}
		})
	}
}

func TestClassifySeverityBoostCapped(t *testing.T) {
	// Five severity terms, boost capped at 24.
	got := Classify(Input{
		Subject:     "production outage emergency",
		Description: "all users blocked",
		Urgency:     domain.UrgencyLow,
	})
	if got.UrgencyScore != 44 {
		t.Errorf("UrgencyScore = %d, want 44 (20 base + 24 capped boost)", got.UrgencyScore)
	}
	if got.ComplexityEstimate != domain.ComplexityMedium {
		t.Errorf("ComplexityEstimate = %s, want MEDIUM", got.ComplexityEstimate)
	}
}

func TestClassifyScoreClampedAt100(t *testing.T) {
	got := Classify(Input{
		Subject:     "Critical production outage",
		Description: "database down, all users affected",
		Urgency:     domain.UrgencyCritical,
	})
	if got.UrgencyScore != 100 {
		t.Errorf("UrgencyScore = %d, want 100", got.UrgencyScore)
	}
	if got.ComplexityEstimate != domain.ComplexityHigh {
		t.Errorf("ComplexityEstimate = %s, want HIGH", got.ComplexityEstimate)
	}
	if got.RecommendedAction != domain.ActionCRP {
		t.Errorf("RecommendedAction = %s, want CRP", got.RecommendedAction)
	}
}

func TestClassifyTagDiscoveryOrder(t *testing.T) {
	// "network" appears before "deployment"; tags keep text order.
	got := Classify(Input{
		Subject: "network issues after deployment",
		Urgency: domain.UrgencyMedium,
	})
	want := []domain.SkillType{domain.SkillNetwork, domain.SkillDevOps}
	if !reflect.DeepEqual(got.SkillTags, want) {
		t.Errorf("SkillTags = %v, want %v", got.SkillTags, want)
	}
	if got.RecommendedAction != domain.ActionCRP {
		t.Errorf("RecommendedAction = %s, want CRP for two tags", got.RecommendedAction)
	}
	if got.ConfidenceScore != 70 {
		t.Errorf("ConfidenceScore = %d, want 70 (50 + 2*10)", got.ConfidenceScore)
	}
}

func TestClassifyNoTagsLowConfidence(t *testing.T) {
	got := Classify(Input{
		Subject: "General question about licensing",
		Urgency: domain.UrgencyLow,
	})
	if len(got.SkillTags) != 0 {
		t.Fatalf("SkillTags = %v, want empty", got.SkillTags)
	}
	if got.ConfidenceScore != 25 {
		t.Errorf("ConfidenceScore = %d, want 25", got.ConfidenceScore)
	}
	if got.RecommendedAction != domain.ActionStandard {
		t.Errorf("RecommendedAction = %s, want STANDARD", got.RecommendedAction)
	}
}
