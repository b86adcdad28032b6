package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aesdk/mlflowsdk/pkg/api/types/models"
)

func searchQuery(param models.SearchParameter) url.Values {
	q := url.Values{}
	if param.Filter != "" {
		q.Set("filter", param.Filter)
	}
	if 0 < param.MaxResults {
		q.Set("max_results", strconv.FormatInt(param.MaxResults, 10))
	}
	for _, o := range param.OrderBy {
		q.Add("order_by", o)
	}
	if param.PageToken != "" {
		q.Set("page_token", param.PageToken)
	}
	return q
}

func (c *client) SearchRegisteredModels(
	ctx context.Context, param models.SearchParameter,
) (models.SearchRegisteredModelsResponse, error) {
	resp, err := c.send(
		ctx, http.MethodGet, c.registryApi("registered-models", "search"),
		searchQuery(param), nil,
	)
	if err != nil {
		return models.SearchRegisteredModelsResponse{}, err
	}
	defer resp.Body.Close()

	var result models.SearchRegisteredModelsResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot search registered models (filter = %q)", param.Filter),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return models.SearchRegisteredModelsResponse{}, err
	}
	return result, nil
}

func (c *client) GetRegisteredModel(ctx context.Context, name string) (models.RegisteredModel, error) {
	resp, err := c.send(
		ctx, http.MethodGet, c.registryApi("registered-models", "get"),
		url.Values{"name": {name}}, nil,
	)
	if err != nil {
		return models.RegisteredModel{}, err
	}
	defer resp.Body.Close()

	var result models.GetRegisteredModelResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("registered model %q is not found", name),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return models.RegisteredModel{}, err
	}
	return result.RegisteredModel, nil
}

func (c *client) GetLatestVersions(
	ctx context.Context, name string, stages []string,
) ([]models.ModelVersion, error) {
	resp, err := c.send(
		ctx, http.MethodPost, c.registryApi("registered-models", "get-latest-versions"),
		nil, models.GetLatestVersionsRequest{Name: name, Stages: stages},
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result models.GetLatestVersionsResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot get latest versions of model %q (stages = %v)", name, stages),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return nil, err
	}
	return result.ModelVersions, nil
}

func (c *client) GetModelVersionByAlias(
	ctx context.Context, name string, alias string,
) (models.ModelVersion, error) {
	resp, err := c.send(
		ctx, http.MethodGet, c.registryApi("registered-models", "alias"),
		url.Values{"name": {name}, "alias": {alias}}, nil,
	)
	if err != nil {
		return models.ModelVersion{}, err
	}
	defer resp.Body.Close()

	var result models.GetModelVersionResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("model %q has no alias @%s", name, alias),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return models.ModelVersion{}, err
	}
	return result.ModelVersion, nil
}

func (c *client) SearchModelVersions(
	ctx context.Context, param models.SearchParameter,
) (models.SearchModelVersionsResponse, error) {
	resp, err := c.send(
		ctx, http.MethodGet, c.registryApi("model-versions", "search"),
		searchQuery(param), nil,
	)
	if err != nil {
		return models.SearchModelVersionsResponse{}, err
	}
	defer resp.Body.Close()

	var result models.SearchModelVersionsResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot search model versions (filter = %q)", param.Filter),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return models.SearchModelVersionsResponse{}, err
	}
	return result, nil
}

func (c *client) GetModelVersion(
	ctx context.Context, name string, version string,
) (models.ModelVersion, error) {
	resp, err := c.send(
		ctx, http.MethodGet, c.registryApi("model-versions", "get"),
		url.Values{"name": {name}, "version": {version}}, nil,
	)
	if err != nil {
		return models.ModelVersion{}, err
	}
	defer resp.Body.Close()

	var result models.GetModelVersionResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("model %q version %s is not found", name, version),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return models.ModelVersion{}, err
	}
	return result.ModelVersion, nil
}

func (c *client) GetModelVersionDownloadURI(
	ctx context.Context, name string, version string,
) (string, error) {
	resp, err := c.send(
		ctx, http.MethodGet, c.registryApi("model-versions", "get-download-uri"),
		url.Values{"name": {name}, "version": {version}}, nil,
	)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result models.GetDownloadURIResponse
	if err := unmarshalJsonResponse(
		resp, &result,
		MessageFor{
			Status4xx: fmt.Sprintf("model %q version %s is not found", name, version),
			Status5xx: serverError(resp),
		},
	); err != nil {
		return "", err
	}
	return result.ArtifactUri, nil
}
