package service

import (
	"context"
	"errors"
	"testing"

	"questpath/internal/model"
	"questpath/internal/service/mocks"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWorkflowSequencer_StepIndex(t *testing.T) {
	seq := NewWorkflowSequencer()

	tests := []struct {
		state string
		want  int
	}{
		{state: "onboarding", want: 0},
		{state: "quest_selection", want: 1},
		{state: "task_execution", want: 2},
		{state: "code_review", want: 3},
		{state: "making_contribution", want: 4},
		{state: "completed", want: 5},
		{state: "bogus_state", want: 0},
		{state: "", want: 0},
		{state: "  Code_Review ", want: 3},
		{state: "writing_code", want: 2},
		{state: "submitted_for_review", want: 3},
		{state: "workflow_complete", want: 5},
		{state: "user_new", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			assert.Equal(t, tt.want, seq.StepIndex(tt.state))
		})
	}
}

func TestWorkflowSequencer_Classify(t *testing.T) {
	seq := NewWorkflowSequencer()

	got := seq.Classify("code_review")
	want := model.WorkflowClassification{
		Completed: WorkflowSteps[:3],
		Current:   WorkflowSteps[3],
		Upcoming:  WorkflowSteps[4:],
		Index:     3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify(code_review) mismatch (-want +got):\n%s", diff)
	}

	first := seq.Classify("bogus_state")
	assert.Empty(t, first.Completed)
	assert.Equal(t, model.WorkflowOnboarding, first.Current.State)
	assert.Len(t, first.Upcoming, len(WorkflowSteps)-1)

	last := seq.Classify("completed")
	assert.Len(t, last.Completed, len(WorkflowSteps)-1)
	assert.Empty(t, last.Upcoming)
}

func TestWorkflowSequencer_ClassifyPartitionsEveryStep(t *testing.T) {
	seq := NewWorkflowSequencer()

	for i, step := range seq.Steps() {
		class := seq.Classify(string(step.State))
		assert.Equal(t, i, class.Index)
		assert.Equal(t, len(WorkflowSteps), len(class.Completed)+1+len(class.Upcoming))
	}
}

func TestWorkflowService_Current(t *testing.T) {
	source := &mocks.MockWorkflowSource{}
	svc := NewWorkflowService(source, NewWorkflowSequencer())
	ctx := context.Background()

	source.On("FetchWorkflowState", mock.Anything, "u1").
		Return(&model.WorkflowSnapshot{State: "writing_code"}, nil).Once()
	source.On("FetchWorkflowState", mock.Anything, "u2").
		Return(nil, errors.New("dial tcp: connection refused")).Once()
	source.On("FetchWorkflowState", mock.Anything, "u3").
		Return(nil, nil).Once()

	state, class, err := svc.Current(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.WorkflowTaskExecution, state)
	assert.Equal(t, 2, class.Index)

	_, _, err = svc.Current(ctx, "u2")
	assert.ErrorIs(t, err, ErrNetwork)

	state, class, err = svc.Current(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, model.WorkflowOnboarding, state)
	assert.Equal(t, 0, class.Index)

	source.AssertExpectations(t)
}
