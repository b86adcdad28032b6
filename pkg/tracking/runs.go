package tracking

import (
	"context"
	"errors"
	"fmt"
	"slices"

	apierr "github.com/aesdk/mlflowsdk/pkg/api/types/errors"
	"github.com/aesdk/mlflowsdk/pkg/api/types/experiments"
	"github.com/aesdk/mlflowsdk/pkg/api/types/runs"
	"github.com/aesdk/mlflowsdk/pkg/api/types/tags"
	"github.com/aesdk/mlflowsdk/pkg/api/types/timestamp"
	"github.com/aesdk/mlflowsdk/pkg/utils/pointer"
	"go.uber.org/zap"
)

var ErrNotTerminalStatus = errors.New("run status is not terminal")

// StartRun creates a new run in the experiment, started now.
//
// When name is not empty, it is also recorded as the "mlflow.runName" tag.
func (c *Client) StartRun(ctx context.Context, experimentId string, name string, runTags ...tags.Tag) (runs.Run, error) {
	if name != "" {
		if _, ok := tags.Lookup(runTags, tags.KeyRunName); !ok {
			runTags = append(slices.Clip(runTags), tags.Tag{Key: tags.KeyRunName, Value: name})
		}
	}

	run, err := c.raw.CreateRun(ctx, runs.CreateRequest{
		ExperimentId: experimentId,
		RunName:      name,
		StartTime:    timestamp.Now(),
		Tags:         runTags,
	})
	if err != nil {
		return runs.Run{}, err
	}
	c.logger.Info(
		"run started",
		zap.String("experiment_id", experimentId), zap.String("run_id", run.Info.RunId),
	)
	return run, nil
}

// EndRun terminates the run with the status, at now.
//
// Empty status means runs.Finished. Non-terminal statuses are rejected with ErrNotTerminalStatus.
func (c *Client) EndRun(ctx context.Context, runId string, status runs.Status) (runs.Info, error) {
	if status == "" {
		status = runs.Finished
	}
	if !status.Terminated() {
		return runs.Info{}, fmt.Errorf("%w: %s", ErrNotTerminalStatus, status)
	}

	info, err := c.raw.UpdateRun(ctx, runs.UpdateRequest{
		RunId: runId, Status: status, EndTime: pointer.Ref(timestamp.Now()),
	})
	if err != nil {
		return runs.Info{}, err
	}
	c.logger.Info("run ended", zap.String("run_id", runId), zap.String("status", string(status)))
	return info, nil
}

// LogBatch logs metrics, params and tags of the run.
//
// They are split into as many requests as the server limits of a batch need.
// Params go first, tags follow, and metrics come last.
// When a request fails, entities in the following requests are not logged.
func (c *Client) LogBatch(
	ctx context.Context, runId string, metrics []runs.Metric, params []runs.Param, runTags []tags.Tag,
) error {
	for _, batch := range splitBatch(runId, metrics, params, runTags) {
		if err := c.raw.LogBatch(ctx, batch); err != nil {
			return err
		}
		c.logger.Debug(
			"batch logged",
			zap.String("run_id", runId),
			zap.Int("metrics", len(batch.Metrics)),
			zap.Int("params", len(batch.Params)),
			zap.Int("tags", len(batch.Tags)),
		)
	}
	return nil
}

func splitBatch(runId string, metrics []runs.Metric, params []runs.Param, runTags []tags.Tag) []runs.LogBatchRequest {
	batches := []runs.LogBatchRequest{}
	for 0 < len(metrics) || 0 < len(params) || 0 < len(runTags) {
		b := runs.LogBatchRequest{RunId: runId}

		np := min(len(params), runs.MaxParamsPerBatch)
		b.Params, params = params[:np], params[np:]

		nt := min(len(runTags), runs.MaxTagsPerBatch)
		b.Tags, runTags = runTags[:nt], runTags[nt:]

		nm := min(len(metrics), runs.MaxMetricsPerBatch, runs.MaxEntitiesPerBatch-np-nt)
		b.Metrics, metrics = metrics[:nm], metrics[nm:]

		batches = append(batches, b)
	}
	return batches
}

// GetOrCreateExperiment returns id of the experiment with the name, creating it if missing.
func (c *Client) GetOrCreateExperiment(ctx context.Context, name string) (string, error) {
	exp, err := c.raw.GetExperimentByName(ctx, name)
	if err == nil {
		if exp.LifecycleStage == experiments.StageDeleted {
			return "", fmt.Errorf("experiment %q (id:%s) is deleted", name, exp.ExperimentId)
		}
		return exp.ExperimentId, nil
	}
	if !apierr.IsNotFound(err) {
		return "", err
	}

	id, err := c.raw.CreateExperiment(ctx, experiments.CreateRequest{Name: name})
	if apierr.IsAlreadyExists(err) {
		// created by someone else in the meantime.
		exp, err := c.raw.GetExperimentByName(ctx, name)
		if err != nil {
			return "", err
		}
		return exp.ExperimentId, nil
	}
	if err != nil {
		return "", err
	}
	c.logger.Info("experiment created", zap.String("name", name), zap.String("experiment_id", id))
	return id, nil
}
