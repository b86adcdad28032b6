package runs

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/aesdk/mlflowsdk/pkg/api/types/internal/cmp"
	"github.com/aesdk/mlflowsdk/pkg/api/types/tags"
	"github.com/aesdk/mlflowsdk/pkg/api/types/timestamp"
)

// Status of a run.
type Status string

const (
	Running   Status = "RUNNING"
	Scheduled Status = "SCHEDULED"
	Finished  Status = "FINISHED"
	Failed    Status = "FAILED"
	Killed    Status = "KILLED"
)

// Terminated reports whether the run will never make progress any more.
func (s Status) Terminated() bool {
	switch s {
	case Finished, Failed, Killed:
		return true
	default:
		return false
	}
}

type Info struct {
	RunId          string            `json:"run_id"`
	RunName        string            `json:"run_name,omitempty"`
	ExperimentId   string            `json:"experiment_id"`
	UserId         string            `json:"user_id,omitempty"`
	Status         Status            `json:"status"`
	StartTime      timestamp.Millis  `json:"start_time,omitempty"`
	EndTime        *timestamp.Millis `json:"end_time,omitempty"`
	ArtifactUri    string            `json:"artifact_uri,omitempty"`
	LifecycleStage string            `json:"lifecycle_stage,omitempty"`
}

func (i Info) Equal(o Info) bool {
	endEq := (i.EndTime == nil && o.EndTime == nil) ||
		(i.EndTime != nil && o.EndTime != nil && i.EndTime.Equal(*o.EndTime))

	return i.RunId == o.RunId &&
		i.RunName == o.RunName &&
		i.ExperimentId == o.ExperimentId &&
		i.UserId == o.UserId &&
		i.Status == o.Status &&
		i.StartTime.Equal(o.StartTime) &&
		endEq &&
		i.ArtifactUri == o.ArtifactUri &&
		i.LifecycleStage == o.LifecycleStage
}

type Metric struct {
	Key       string           `json:"key"`
	Value     float64          `json:"value"`
	Timestamp timestamp.Millis `json:"timestamp"`
	Step      int64            `json:"step"`
}

// Equal compares metrics field by field. NaN values equal to each other.
func (m Metric) Equal(o Metric) bool {
	valueEq := m.Value == o.Value || (math.IsNaN(m.Value) && math.IsNaN(o.Value))
	return m.Key == o.Key &&
		valueEq &&
		m.Timestamp.Equal(o.Timestamp) &&
		m.Step == o.Step
}

// metricJSON is the wire form of Metric.
//
// JSON has no literal for non-finite numbers, so they travel as the strings
// "NaN", "Infinity" and "-Infinity".
type metricJSON struct {
	Key       string           `json:"key"`
	Value     json.RawMessage  `json:"value"`
	Timestamp timestamp.Millis `json:"timestamp"`
	Step      int64            `json:"step"`
}

func (m Metric) MarshalJSON() ([]byte, error) {
	var v string
	switch {
	case math.IsNaN(m.Value):
		v = `"NaN"`
	case math.IsInf(m.Value, 1):
		v = `"Infinity"`
	case math.IsInf(m.Value, -1):
		v = `"-Infinity"`
	default:
		v = strconv.FormatFloat(m.Value, 'g', -1, 64)
	}
	return json.Marshal(metricJSON{
		Key: m.Key, Value: json.RawMessage(v), Timestamp: m.Timestamp, Step: m.Step,
	})
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	var w metricJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	v, err := parseMetricValue(w.Value)
	if err != nil {
		return fmt.Errorf("metric %s: %w", w.Key, err)
	}
	*m = Metric{Key: w.Key, Value: v, Timestamp: w.Timestamp, Step: w.Step}
	return nil
}

func parseMetricValue(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	if raw[0] != '"' {
		var f float64
		err := json.Unmarshal(raw, &f)
		return f, err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	switch s {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	return 0, fmt.Errorf("unexpected metric value: %q", s)
}

type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (p Param) Equal(o Param) bool {
	return p.Key == o.Key && p.Value == o.Value
}

type Data struct {
	Metrics []Metric   `json:"metrics,omitempty"`
	Params  []Param    `json:"params,omitempty"`
	Tags    []tags.Tag `json:"tags,omitempty"`
}

func (d Data) Equal(o Data) bool {
	return cmp.SliceEqualUnordered(d.Metrics, o.Metrics) &&
		cmp.SliceEqualUnordered(d.Params, o.Params) &&
		cmp.SliceEqualUnordered(d.Tags, o.Tags)
}

type Run struct {
	Info Info `json:"info"`
	Data Data `json:"data"`
}

func (r Run) Equal(o Run) bool {
	return r.Info.Equal(o.Info) && r.Data.Equal(o.Data)
}

type SearchRequest struct {
	ExperimentIds []string `json:"experiment_ids"`
	Filter        string   `json:"filter,omitempty"`
	RunViewType   string   `json:"run_view_type,omitempty"`
	MaxResults    int64    `json:"max_results,omitempty"`
	OrderBy       []string `json:"order_by,omitempty"`
	PageToken     string   `json:"page_token,omitempty"`
}

type SearchResponse struct {
	Runs          []Run  `json:"runs"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

type GetResponse struct {
	Run Run `json:"run"`
}

type CreateRequest struct {
	ExperimentId string           `json:"experiment_id"`
	UserId       string           `json:"user_id,omitempty"`
	RunName      string           `json:"run_name,omitempty"`
	StartTime    timestamp.Millis `json:"start_time,omitempty"`
	Tags         []tags.Tag       `json:"tags,omitempty"`
}

type CreateResponse struct {
	Run Run `json:"run"`
}

type UpdateRequest struct {
	RunId   string            `json:"run_id"`
	Status  Status            `json:"status,omitempty"`
	EndTime *timestamp.Millis `json:"end_time,omitempty"`
	RunName string            `json:"run_name,omitempty"`
}

type UpdateResponse struct {
	RunInfo Info `json:"run_info"`
}

type LogBatchRequest struct {
	RunId   string     `json:"run_id"`
	Metrics []Metric   `json:"metrics,omitempty"`
	Params  []Param    `json:"params,omitempty"`
	Tags    []tags.Tag `json:"tags,omitempty"`
}

// limits of a single log-batch request.
const (
	MaxEntitiesPerBatch = 1000
	MaxMetricsPerBatch  = 1000
	MaxParamsPerBatch   = 100
	MaxTagsPerBatch     = 100
)
