package model

type WorkflowState string

const (
	WorkflowOnboarding         WorkflowState = "onboarding"
	WorkflowQuestSelection     WorkflowState = "quest_selection"
	WorkflowTaskExecution      WorkflowState = "task_execution"
	WorkflowCodeReview         WorkflowState = "code_review"
	WorkflowMakingContribution WorkflowState = "making_contribution"
	WorkflowCompleted          WorkflowState = "completed"
)

type WorkflowStep struct {
	Name  string
	Icon  string
	State WorkflowState
}

type WorkflowClassification struct {
	Completed []WorkflowStep
	Current   WorkflowStep
	Upcoming  []WorkflowStep
	Index     int
}

type WorkflowSnapshot struct {
	State WorkflowState
	User  *UserProgress
}
