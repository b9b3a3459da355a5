package ecowitt

import (
	"strings"

	"github.com/mrnez/weewx-ecowitt-API/internal/record"
)

// The vendor's real-time endpoint reports US units: inHg pressure, °F
// temperatures, mph winds, inch rainfall.
const inHgToHPa = 33.8639

const (
	mphToMPS = 0.44704
	inToMM   = 25.4
)

// conversion rewrites the value at matching flat keys into the metric unit.
type conversion struct {
	match func(key string) bool
	apply func(v float64) float64
}

// metricConversions is applied exactly once per interval, between
// flattening and mapping. The pressure family is matched by path prefix;
// the remaining transforms by the vendor's leaf naming.
var metricConversions = []conversion{
	{
		match: func(key string) bool { return strings.HasPrefix(key, "pressure.") },
		apply: func(v float64) float64 { return v * inHgToHPa },
	},
	{
		match: func(key string) bool { return hasSegment(key, "temperature", "dew_point", "feels_like", "app_temp") },
		apply: func(v float64) float64 { return (v - 32) * 5 / 9 },
	},
	{
		match: func(key string) bool { return hasSegment(key, "wind_speed", "wind_gust") },
		apply: func(v float64) float64 { return v * mphToMPS },
	},
	{
		match: func(key string) bool { return strings.HasPrefix(key, "rainfall.") },
		apply: func(v float64) float64 { return v * inToMM },
	},
}

func hasSegment(key string, names ...string) bool {
	for _, seg := range strings.Split(key, ".") {
		for _, n := range names {
			if seg == n {
				return true
			}
		}
	}
	return false
}

// ConvertUnits applies known unit transforms for the target unit system.
// Metric targets get a new map, the input is never mutated; for US targets
// the vendor values are already in the right units and the input map is
// returned as-is. Values that do not coerce to a number are passed through
// untouched; the mapper decides whether they are an error.
func ConvertUnits(flat map[string]any, target record.UnitSystem) map[string]any {
	if target != record.UnitSystemMetricWX {
		return flat
	}
	out := make(map[string]any, len(flat))
	for key, raw := range flat {
		out[key] = raw
		for _, c := range metricConversions {
			if !c.match(key) {
				continue
			}
			if v, err := coerceFloat(raw); err == nil {
				out[key] = c.apply(v)
			}
			break
		}
	}
	return out
}
