package domain

// Availability enumerates engineer presence states.
type Availability string

const (
	AvailabilityAvailable Availability = "AVAILABLE"
	AvailabilityBusy      Availability = "BUSY"
	AvailabilityOffline   Availability = "OFFLINE"
)

// BusyWorkloadThreshold is the workload percentage at or above which an
// engineer is considered Busy, unless forced Offline by an operator.
const BusyWorkloadThreshold = 80

// Engineer models a support engineer in the resolution roster.
type Engineer struct {
	ID              string
	Name            string
	Department      string
	Email           string
	Skills          []SkillType
	Expertise       map[SkillType]int
	Availability    Availability
	CurrentWorkload int
	IsLeadEngineer  bool
	ForcedOffline   bool
}

// ExpertiseIn returns the engineer's expertise for a skill, 0 when absent.
func (e *Engineer) ExpertiseIn(skill SkillType) int {
	if e.Expertise == nil {
		return 0
	}
	return e.Expertise[skill]
}

// RecomputeAvailability applies the workload threshold rule. A manual
// Offline override sticks until it is cleared.
func (e *Engineer) RecomputeAvailability() {
	if e.ForcedOffline {
		e.Availability = AvailabilityOffline
		return
	}
	if e.CurrentWorkload >= BusyWorkloadThreshold {
		e.Availability = AvailabilityBusy
	} else {
		e.Availability = AvailabilityAvailable
	}
}

// Clone returns a deep copy so read models never alias roster state.
func (e *Engineer) Clone() *Engineer {
	clone := *e
	clone.Skills = append([]SkillType(nil), e.Skills...)
	clone.Expertise = make(map[SkillType]int, len(e.Expertise))
	for skill, level := range e.Expertise {
		clone.Expertise[skill] = level
	}
	return &clone
}
