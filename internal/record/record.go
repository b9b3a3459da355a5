package record

import (
	"time"
)

// UnitSystem tags which unit system the fields of a record are expressed in.
type UnitSystem string

const (
	UnitSystemUS       UnitSystem = "US"
	UnitSystemMetricWX UnitSystem = "METRICWX"
)

// Valid reports whether u is one of the recognized unit systems.
func (u UnitSystem) Valid() bool {
	return u == UnitSystemUS || u == UnitSystemMetricWX
}

// Sink is the write surface the augmentation core sees for the current
// interval's archive record. The host owns the record; the core only reads
// the unit-system tag and writes numeric fields by destination name.
type Sink interface {
	UnitSystem() UnitSystem
	SetField(name string, value float64)
}

// ArchiveRecord is the per-interval mapping of observation field names to
// numeric values, tagged with the unit system its values are expressed in.
type ArchiveRecord struct {
	units     UnitSystem
	timestamp time.Time
	fields    map[string]float64
}

// NewArchiveRecord creates an empty record for one interval.
func NewArchiveRecord(units UnitSystem, ts time.Time) *ArchiveRecord {
	return &ArchiveRecord{
		units:     units,
		timestamp: ts.UTC(),
		fields:    make(map[string]float64),
	}
}

func (r *ArchiveRecord) UnitSystem() UnitSystem { return r.units }

func (r *ArchiveRecord) Timestamp() time.Time { return r.timestamp }

// SetField writes one observation, overwriting any previous value.
func (r *ArchiveRecord) SetField(name string, value float64) {
	r.fields[name] = value
}

// Field returns the value written at name, if any.
func (r *ArchiveRecord) Field(name string) (float64, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Len returns the number of fields written so far.
func (r *ArchiveRecord) Len() int { return len(r.fields) }

// Snapshot is the immutable, serializable view of a finished record.
type Snapshot struct {
	Timestamp  time.Time          `json:"timestamp"` // always UTC
	UnitSystem UnitSystem         `json:"unitSystem"`
	Fields     map[string]float64 `json:"fields"`
}

// Snapshot copies the record into an immutable view for storage and serving.
func (r *ArchiveRecord) Snapshot() Snapshot {
	fields := make(map[string]float64, len(r.fields))
	for k, v := range r.fields {
		fields[k] = v
	}
	return Snapshot{
		Timestamp:  r.timestamp,
		UnitSystem: r.units,
		Fields:     fields,
	}
}
