package service

import (
	"context"
	"strings"

	"questpath/internal/model"
	"questpath/pkg/logger"

	"go.uber.org/zap"
)

// WorkflowSteps is the fixed learning funnel, in order.
var WorkflowSteps = []model.WorkflowStep{
	{Name: "Onboarding", Icon: "👋", State: model.WorkflowOnboarding},
	{Name: "Quest Selection", Icon: "🎯", State: model.WorkflowQuestSelection},
	{Name: "Write Code", Icon: "💻", State: model.WorkflowTaskExecution},
	{Name: "Code Review", Icon: "👀", State: model.WorkflowCodeReview},
	{Name: "Contribute", Icon: "🚀", State: model.WorkflowMakingContribution},
	{Name: "Complete", Icon: "✅", State: model.WorkflowCompleted},
}

// Labels older backends report in place of the canonical states.
var workflowAliases = map[string]model.WorkflowState{
	"user_new":             model.WorkflowOnboarding,
	"selecting_quest":      model.WorkflowQuestSelection,
	"quest_started":        model.WorkflowTaskExecution,
	"in_quest":             model.WorkflowTaskExecution,
	"writing_code":         model.WorkflowTaskExecution,
	"need_help":            model.WorkflowTaskExecution,
	"asked_for_help":       model.WorkflowTaskExecution,
	"submitted_for_review": model.WorkflowCodeReview,
	"contribution_ready":   model.WorkflowMakingContribution,
	"ready_to_contribute":  model.WorkflowMakingContribution,
	"contributing":         model.WorkflowMakingContribution,
	"workflow_complete":    model.WorkflowCompleted,
}

// NormalizeWorkflowState maps a backend label onto the canonical state.
// Unknown labels come back unchanged.
func NormalizeWorkflowState(label string) model.WorkflowState {
	s := strings.ToLower(strings.TrimSpace(label))
	if alias, ok := workflowAliases[s]; ok {
		return alias
	}
	return model.WorkflowState(s)
}

type WorkflowSequencer struct {
	steps []model.WorkflowStep
	index map[model.WorkflowState]int
}

func NewWorkflowSequencer() *WorkflowSequencer {
	seq := &WorkflowSequencer{
		steps: WorkflowSteps,
		index: make(map[model.WorkflowState]int, len(WorkflowSteps)),
	}
	for i, step := range seq.steps {
		seq.index[step.State] = i
	}
	return seq
}

func (s *WorkflowSequencer) Steps() []model.WorkflowStep {
	return append([]model.WorkflowStep(nil), s.steps...)
}

// StepIndex returns the position of state in the step list. Unrecognized
// labels fall back to the first step.
func (s *WorkflowSequencer) StepIndex(state string) int {
	if i, ok := s.index[NormalizeWorkflowState(state)]; ok {
		return i
	}
	return 0
}

func (s *WorkflowSequencer) Classify(state string) model.WorkflowClassification {
	idx := s.StepIndex(state)
	return model.WorkflowClassification{
		Completed: append([]model.WorkflowStep{}, s.steps[:idx]...),
		Current:   s.steps[idx],
		Upcoming:  append([]model.WorkflowStep{}, s.steps[idx+1:]...),
		Index:     idx,
	}
}

type WorkflowService struct {
	source    WorkflowSource
	sequencer *WorkflowSequencer
}

func NewWorkflowService(source WorkflowSource, sequencer *WorkflowSequencer) *WorkflowService {
	return &WorkflowService{
		source:    source,
		sequencer: sequencer,
	}
}

// Current fetches the user's backend workflow state and positions it in the funnel.
func (s *WorkflowService) Current(ctx context.Context, userID string) (model.WorkflowState, model.WorkflowClassification, error) {
	snapshot, err := s.source.FetchWorkflowState(ctx, userID)
	if err != nil {
		logger.Logger().Error("failed to fetch workflow state",
			zap.String("user_id", userID),
			zap.Error(err))
		return "", model.WorkflowClassification{}, asNetworkError("fetch workflow state", err)
	}

	var state string
	if snapshot != nil {
		state = string(snapshot.State)
	}
	class := s.sequencer.Classify(state)
	return class.Current.State, class, nil
}
