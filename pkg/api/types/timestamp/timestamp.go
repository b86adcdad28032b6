package timestamp

import "time"

// Millis is a point of time expressed in milliseconds since the unix epoch.
//
// MLflow uses this representation for every timestamp on the wire.
type Millis int64

func FromTime(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

func Now() Millis {
	return FromTime(time.Now())
}

func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

func (m Millis) Equal(o Millis) bool {
	return m == o
}

// String returns the time formatted in RFC3339 with milliseconds.
func (m Millis) String() string {
	return m.Time().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
