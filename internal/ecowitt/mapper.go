package ecowitt

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/mrnez/weewx-ecowitt-API/internal/record"
)

// LabelPair maps one vendor flat key to one archive record field.
type LabelPair struct {
	Source string
	Dest   string
}

// SkipReason classifies why a configured pair produced no write.
type SkipReason string

const (
	SkipMissing    SkipReason = "missing"
	SkipNonNumeric SkipReason = "non-numeric"
)

// Outcome summarizes one interval's merge for the summary log line.
type Outcome struct {
	Processed int
	Skipped   int
	Updated   []string
	Reasons   map[SkipReason]int
}

func (o *Outcome) skip(reason SkipReason) {
	o.Skipped++
	if o.Reasons == nil {
		o.Reasons = make(map[SkipReason]int)
	}
	o.Reasons[reason]++
}

// sentinel strings the station firmware emits for absent readings
var sentinels = map[string]bool{
	"":    true,
	"--":  true,
	"NA":  true,
	"N/A": true,
}

// coerceFloat turns a flattened scalar into a float64. Strings are trimmed
// and checked against the firmware's absent-value sentinels first.
func coerceFloat(raw any) (float64, error) {
	switch t := raw.(type) {
	case float64:
		return t, nil
	case json.Number:
		return t.Float64()
	case string:
		s := strings.TrimSpace(t)
		if sentinels[s] {
			return 0, strconv.ErrSyntax
		}
		return strconv.ParseFloat(s, 64)
	default:
		// bool, nil
		return 0, strconv.ErrSyntax
	}
}

// MergeRecord walks the label map in configured order, coercing each
// present source value and writing it into the sink under the destination
// field name. Absent sources and, when ignoreValueError is set, non-numeric
// values become counted skips. A non-numeric value otherwise stops the
// merge with a *ValueConversionError naming the destination field; writes
// made before the failing pair stand.
func MergeRecord(flat map[string]any, labels []LabelPair, sink record.Sink, ignoreValueError bool) (Outcome, error) {
	var out Outcome
	for _, pair := range labels {
		raw, ok := flat[pair.Source]
		if !ok {
			out.skip(SkipMissing)
			continue
		}
		v, err := coerceFloat(raw)
		if err != nil {
			if ignoreValueError {
				out.skip(SkipNonNumeric)
				continue
			}
			return out, &ValueConversionError{Field: pair.Dest}
		}
		sink.SetField(pair.Dest, v)
		out.Updated = append(out.Updated, pair.Dest)
		out.Processed++
	}
	sort.Strings(out.Updated)
	return out, nil
}
