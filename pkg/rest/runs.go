package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aesdk/mlflowsdk/pkg/api/types/runs"
)

func (c *client) SearchRuns(ctx context.Context, req runs.SearchRequest) (runs.SearchResponse, error) {
	resp, err := c.send(ctx, http.MethodPost, c.trackingApi("runs", "search"), nil, req)
	if err != nil {
		return runs.SearchResponse{}, err
	}
	defer resp.Body.Close()

	var result runs.SearchResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf(
				"cannot search runs in experiments %v (filter = %q)", req.ExperimentIds, req.Filter,
			),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return runs.SearchResponse{}, err
	}
	return result, nil
}

func (c *client) GetRun(ctx context.Context, runId string) (runs.Run, error) {
	resp, err := c.send(
		ctx, http.MethodGet, c.trackingApi("runs", "get"),
		url.Values{"run_id": {runId}}, nil,
	)
	if err != nil {
		return runs.Run{}, err
	}
	defer resp.Body.Close()

	var result runs.GetResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("run id:%s is not found", runId),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return runs.Run{}, err
	}
	return result.Run, nil
}

func (c *client) CreateRun(ctx context.Context, req runs.CreateRequest) (runs.Run, error) {
	resp, err := c.send(ctx, http.MethodPost, c.trackingApi("runs", "create"), nil, req)
	if err != nil {
		return runs.Run{}, err
	}
	defer resp.Body.Close()

	var result runs.CreateResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot create run in experiment id:%s", req.ExperimentId),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return runs.Run{}, err
	}
	return result.Run, nil
}

func (c *client) UpdateRun(ctx context.Context, req runs.UpdateRequest) (runs.Info, error) {
	resp, err := c.send(ctx, http.MethodPost, c.trackingApi("runs", "update"), nil, req)
	if err != nil {
		return runs.Info{}, err
	}
	defer resp.Body.Close()

	var result runs.UpdateResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("run id:%s cannot be updated", req.RunId),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return runs.Info{}, err
	}
	return result.RunInfo, nil
}

func (c *client) LogBatch(ctx context.Context, req runs.LogBatchRequest) error {
	resp, err := c.send(ctx, http.MethodPost, c.trackingApi("runs", "log-batch"), nil, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(
		resp,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot log to run id:%s", req.RunId),
			Status5xx: serverError(resp),
		},
	)
}
