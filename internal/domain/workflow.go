package domain

// WorkflowStage enumerates the linear stages of a resolution run.
type WorkflowStage string

const (
	StageSubmission     WorkflowStage = "submission"
	StageClassification WorkflowStage = "classification"
	StageResolution     WorkflowStage = "resolution"
	StageCompletion     WorkflowStage = "completion"
)

var workflowStageOrder = map[WorkflowStage]int{
	StageSubmission:     0,
	StageClassification: 1,
	StageResolution:     2,
	StageCompletion:     3,
}

// StageRank returns the ordinal position of a stage, -1 for unknown stages.
func StageRank(stage WorkflowStage) int {
	rank, ok := workflowStageOrder[stage]
	if !ok {
		return -1
	}
	return rank
}

// WorkflowState is a per-ticket progress cache for orchestration and display.
type WorkflowState struct {
	CurrentStage  WorkflowStage
	TicketID      string
	TicketSubject string
}
