package models

import (
	"github.com/aesdk/mlflowsdk/pkg/api/types/internal/cmp"
	"github.com/aesdk/mlflowsdk/pkg/api/types/tags"
	"github.com/aesdk/mlflowsdk/pkg/api/types/timestamp"
)

// stages of model versions.
const (
	StageNone       = "None"
	StageStaging    = "Staging"
	StageProduction = "Production"
	StageArchived   = "Archived"
)

// status of model versions.
const (
	StatusPendingRegistration = "PENDING_REGISTRATION"
	StatusFailedRegistration  = "FAILED_REGISTRATION"
	StatusReady               = "READY"
)

type Alias struct {
	Alias   string `json:"alias"`
	Version string `json:"version"`
}

func (a Alias) Equal(o Alias) bool {
	return a.Alias == o.Alias && a.Version == o.Version
}

type ModelVersion struct {
	Name                 string           `json:"name"`
	Version              string           `json:"version"`
	CreationTimestamp    timestamp.Millis `json:"creation_timestamp,omitempty"`
	LastUpdatedTimestamp timestamp.Millis `json:"last_updated_timestamp,omitempty"`
	UserId               string           `json:"user_id,omitempty"`
	CurrentStage         string           `json:"current_stage,omitempty"`
	Description          string           `json:"description,omitempty"`
	Source               string           `json:"source,omitempty"`
	RunId                string           `json:"run_id,omitempty"`
	Status               string           `json:"status,omitempty"`
	StatusMessage        string           `json:"status_message,omitempty"`
	Tags                 []tags.Tag       `json:"tags,omitempty"`
	RunLink              string           `json:"run_link,omitempty"`
	Aliases              []string         `json:"aliases,omitempty"`
}

func (mv ModelVersion) Equal(o ModelVersion) bool {
	if len(mv.Aliases) != len(o.Aliases) {
		return false
	}
	for i := range mv.Aliases {
		if mv.Aliases[i] != o.Aliases[i] {
			return false
		}
	}

	return mv.Name == o.Name &&
		mv.Version == o.Version &&
		mv.CreationTimestamp.Equal(o.CreationTimestamp) &&
		mv.LastUpdatedTimestamp.Equal(o.LastUpdatedTimestamp) &&
		mv.UserId == o.UserId &&
		mv.CurrentStage == o.CurrentStage &&
		mv.Description == o.Description &&
		mv.Source == o.Source &&
		mv.RunId == o.RunId &&
		mv.Status == o.Status &&
		mv.StatusMessage == o.StatusMessage &&
		cmp.SliceEqualUnordered(mv.Tags, o.Tags) &&
		mv.RunLink == o.RunLink
}

type RegisteredModel struct {
	Name                 string           `json:"name"`
	CreationTimestamp    timestamp.Millis `json:"creation_timestamp,omitempty"`
	LastUpdatedTimestamp timestamp.Millis `json:"last_updated_timestamp,omitempty"`
	UserId               string           `json:"user_id,omitempty"`
	Description          string           `json:"description,omitempty"`
	LatestVersions       []ModelVersion   `json:"latest_versions,omitempty"`
	Tags                 []tags.Tag       `json:"tags,omitempty"`
	Aliases              []Alias          `json:"aliases,omitempty"`
}

func (rm RegisteredModel) Equal(o RegisteredModel) bool {
	return rm.Name == o.Name &&
		rm.CreationTimestamp.Equal(o.CreationTimestamp) &&
		rm.LastUpdatedTimestamp.Equal(o.LastUpdatedTimestamp) &&
		rm.UserId == o.UserId &&
		rm.Description == o.Description &&
		cmp.SliceEqualUnordered(rm.LatestVersions, o.LatestVersions) &&
		cmp.SliceEqualUnordered(rm.Tags, o.Tags) &&
		cmp.SliceEqualUnordered(rm.Aliases, o.Aliases)
}

// query of search APIs for registered models and model versions.
type SearchParameter struct {
	Filter     string
	MaxResults int64
	OrderBy    []string
	PageToken  string
}

type SearchRegisteredModelsResponse struct {
	RegisteredModels []RegisteredModel `json:"registered_models"`
	NextPageToken    string            `json:"next_page_token,omitempty"`
}

type SearchModelVersionsResponse struct {
	ModelVersions []ModelVersion `json:"model_versions"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

type GetRegisteredModelResponse struct {
	RegisteredModel RegisteredModel `json:"registered_model"`
}

type GetModelVersionResponse struct {
	ModelVersion ModelVersion `json:"model_version"`
}

type GetLatestVersionsRequest struct {
	Name   string   `json:"name"`
	Stages []string `json:"stages,omitempty"`
}

type GetLatestVersionsResponse struct {
	ModelVersions []ModelVersion `json:"model_versions"`
}

type GetDownloadURIResponse struct {
	ArtifactUri string `json:"artifact_uri"`
}
