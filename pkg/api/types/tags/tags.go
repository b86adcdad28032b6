package tags

import (
	"fmt"
	"strings"
)

// well-known tag keys set by MLflow clients.
const (
	SystemTagPrefix    string = "mlflow."
	KeyRunName         string = SystemTagPrefix + "runName"
	KeyUser            string = SystemTagPrefix + "user"
	KeySourceName      string = SystemTagPrefix + "source.name"
	KeySourceType      string = SystemTagPrefix + "source.type"
	KeyParentRunId     string = SystemTagPrefix + "parentRunId"
	KeyNote            string = SystemTagPrefix + "note.content"
	KeyLoggedModels    string = SystemTagPrefix + "log-model.history"
	ValueSourceTypeJob string = "JOB"
)

type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (t Tag) String() string {
	return t.Key + ":" + t.Value
}

func (a Tag) Equal(b Tag) bool {
	return a.Key == b.Key && a.Value == b.Value
}

// parse string value as Tag
//
// # Args
//
// - string: "KEY:VALUE" formatted string. If not, it returns error.
func (t *Tag) Parse(s string) error {
	k, v, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("tag parse error: %s :no key", s)
	}

	k = strings.TrimSpace(k)
	if k == "" {
		return fmt.Errorf("tag parse error: %s :empty key", s)
	}

	t.Key = k
	t.Value = strings.TrimSpace(v)
	return nil
}

// ToMap converts tags into a map. A tag coming later takes over previous one with the same key.
func ToMap(tags []Tag) map[string]string {
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t.Key] = t.Value
	}
	return m
}

// Lookup returns the value of the first tag with the key.
func Lookup(tags []Tag, key string) (string, bool) {
	for _, t := range tags {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}
