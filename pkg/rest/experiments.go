package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aesdk/mlflowsdk/pkg/api/types/experiments"
)

func (c *client) SearchExperiments(
	ctx context.Context, req experiments.SearchRequest,
) (experiments.SearchResponse, error) {
	resp, err := c.send(ctx, http.MethodPost, c.trackingApi("experiments", "search"), nil, req)
	if err != nil {
		return experiments.SearchResponse{}, err
	}
	defer resp.Body.Close()

	var result experiments.SearchResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot search experiments (filter = %q)", req.Filter),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return experiments.SearchResponse{}, err
	}
	return result, nil
}

func (c *client) GetExperiment(ctx context.Context, experimentId string) (experiments.Experiment, error) {
	resp, err := c.send(
		ctx, http.MethodGet, c.trackingApi("experiments", "get"),
		url.Values{"experiment_id": {experimentId}}, nil,
	)
	if err != nil {
		return experiments.Experiment{}, err
	}
	defer resp.Body.Close()

	var result experiments.GetResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("experiment id:%s is not found", experimentId),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return experiments.Experiment{}, err
	}
	return result.Experiment, nil
}

func (c *client) GetExperimentByName(ctx context.Context, name string) (experiments.Experiment, error) {
	resp, err := c.send(
		ctx, http.MethodGet, c.trackingApi("experiments", "get-by-name"),
		url.Values{"experiment_name": {name}}, nil,
	)
	if err != nil {
		return experiments.Experiment{}, err
	}
	defer resp.Body.Close()

	var result experiments.GetResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("experiment %q is not found", name),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return experiments.Experiment{}, err
	}
	return result.Experiment, nil
}

func (c *client) CreateExperiment(ctx context.Context, req experiments.CreateRequest) (string, error) {
	resp, err := c.send(ctx, http.MethodPost, c.trackingApi("experiments", "create"), nil, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result experiments.CreateResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot create experiment %q", req.Name),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return "", err
	}
	return result.ExperimentId, nil
}
