package deploy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutePipelineRunsPhasesInOrder(t *testing.T) {
	run := NewRun("staging")
	var order []string

	phases := []Phase{
		{Name: "one", Run: func(ctx context.Context, r *Run) error { order = append(order, "one"); return nil }},
		{Name: "two", Run: func(ctx context.Context, r *Run) error { order = append(order, "two"); return nil }},
		{Name: "three", Run: func(ctx context.Context, r *Run) error { order = append(order, "three"); return nil }},
	}

	err := ExecutePipeline(context.Background(), run, phases)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, order)
	assert.Equal(t, 3, run.TotalSteps)
	assert.Equal(t, 3, run.CurrentStep)
	assert.Equal(t, "three", run.Phase)
}

func TestExecutePipelineFreezesPhaseOnFailure(t *testing.T) {
	run := NewRun("staging")
	boom := errors.New("boom")

	var ranThird bool
	phases := []Phase{
		{Name: "one", Run: func(ctx context.Context, r *Run) error { return nil }},
		{Name: "two", Run: func(ctx context.Context, r *Run) error { return boom }},
		{Name: "three", Run: func(ctx context.Context, r *Run) error { ranThird = true; return nil }},
	}

	err := ExecutePipeline(context.Background(), run, phases)
	require.Error(t, err)

	var phaseErr *PhaseError
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, 2, phaseErr.Index)
	assert.Equal(t, "two", phaseErr.Name)
	assert.ErrorIs(t, err, boom)

	// The failing phase freezes progress; later phases never run.
	assert.Equal(t, "two", run.Phase)
	assert.Equal(t, 2, run.CurrentStep)
	assert.False(t, ranThird)
	assert.LessOrEqual(t, run.CurrentStep, run.TotalSteps)
}

func TestRollbackEligible(t *testing.T) {
	assert.False(t, RollbackEligible(1))
	assert.False(t, RollbackEligible(2))
	assert.True(t, RollbackEligible(3))
	assert.True(t, RollbackEligible(4))
	assert.True(t, RollbackEligible(7))
}

func TestPipelineHasSevenPhasesInSpecOrder(t *testing.T) {
	o := New(Config{})
	phases := o.Phases()

	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.Name
	}
	assert.Equal(t, []string{
		"validate-environment",
		"pre-deployment-checks",
		"deploy-services",
		"health-checks",
		"smoke-tests",
		"traffic-routing-update",
		"post-deployment-tasks",
	}, names)
}

func TestNewRunIDs(t *testing.T) {
	a := NewRun("production")
	b := NewRun("production")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Contains(t, a.ID, "deploy-")
	assert.Equal(t, "production", a.Environment)
	assert.Empty(t, a.Services)
}

func TestRunRecords(t *testing.T) {
	run := NewRun("staging")
	run.RecordDeployed("frontend", "1.0.0")
	run.RecordFailed("backend", errors.New("publish rejected"))

	assert.Equal(t, []string{"frontend", "backend"}, run.DeployOrder)
	assert.Equal(t, ServiceDeployed, run.Services["frontend"].Status)
	assert.Equal(t, "1.0.0", run.Services["frontend"].Version)
	assert.Equal(t, ServiceFailed, run.Services["backend"].Status)
	assert.Equal(t, "publish rejected", run.Services["backend"].Error)
}

func TestBuildRecord(t *testing.T) {
	run := NewRun("staging")
	run.Info("something happened")
	run.RecordDeployed("frontend", "1.0.0")

	record := run.BuildRecord("failed", "it broke")
	assert.Equal(t, run.ID, record.ID)
	assert.Equal(t, "failed", record.Status)
	assert.Equal(t, "it broke", record.Error)
	assert.NotEmpty(t, record.Logs)
	assert.GreaterOrEqual(t, record.DurationSeconds, 0.0)
}
