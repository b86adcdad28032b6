package experiments

import (
	"github.com/aesdk/mlflowsdk/pkg/api/types/internal/cmp"
	"github.com/aesdk/mlflowsdk/pkg/api/types/tags"
	"github.com/aesdk/mlflowsdk/pkg/api/types/timestamp"
)

// lifecycle stages of experiments and runs.
const (
	StageActive  = "active"
	StageDeleted = "deleted"
)

// view types of search requests.
const (
	ViewActiveOnly  = "ACTIVE_ONLY"
	ViewDeletedOnly = "DELETED_ONLY"
	ViewAll         = "ALL"
)

// id of the experiment which MLflow creates on its initialization.
const DefaultExperimentId = "0"

type Experiment struct {
	ExperimentId     string           `json:"experiment_id"`
	Name             string           `json:"name"`
	ArtifactLocation string           `json:"artifact_location,omitempty"`
	LifecycleStage   string           `json:"lifecycle_stage,omitempty"`
	LastUpdateTime   timestamp.Millis `json:"last_update_time,omitempty"`
	CreationTime     timestamp.Millis `json:"creation_time,omitempty"`
	Tags             []tags.Tag       `json:"tags,omitempty"`
}

func (e Experiment) Equal(o Experiment) bool {
	return e.ExperimentId == o.ExperimentId &&
		e.Name == o.Name &&
		e.ArtifactLocation == o.ArtifactLocation &&
		e.LifecycleStage == o.LifecycleStage &&
		e.LastUpdateTime.Equal(o.LastUpdateTime) &&
		e.CreationTime.Equal(o.CreationTime) &&
		cmp.SliceEqualUnordered(e.Tags, o.Tags)
}

type SearchRequest struct {
	MaxResults int64    `json:"max_results,omitempty"`
	PageToken  string   `json:"page_token,omitempty"`
	Filter     string   `json:"filter,omitempty"`
	OrderBy    []string `json:"order_by,omitempty"`
	ViewType   string   `json:"view_type,omitempty"`
}

type SearchResponse struct {
	Experiments   []Experiment `json:"experiments"`
	NextPageToken string       `json:"next_page_token,omitempty"`
}

type GetResponse struct {
	Experiment Experiment `json:"experiment"`
}

type CreateRequest struct {
	Name             string     `json:"name"`
	ArtifactLocation string     `json:"artifact_location,omitempty"`
	Tags             []tags.Tag `json:"tags,omitempty"`
}

type CreateResponse struct {
	ExperimentId string `json:"experiment_id"`
}
