package ecowitt

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind discriminates the closed set of payload node shapes.
type Kind int

const (
	KindScalar Kind = iota
	KindMapping
	KindSequence
)

// Value is one node of the vendor payload: a scalar leaf, a string-keyed
// mapping, or a sequence. JSON null decodes as a scalar with a nil value.
type Value struct {
	kind    Kind
	scalar  any
	mapping map[string]Value
	seq     []Value
}

func (v Value) Kind() Kind { return v.kind }

// Scalar returns the leaf value; only meaningful when Kind is KindScalar.
// Numbers are json.Number so precision survives until coercion.
func (v Value) Scalar() any { return v.scalar }

// Mapping returns the child map; only meaningful when Kind is KindMapping.
func (v Value) Mapping() map[string]Value { return v.mapping }

// Sequence returns the child slice; only meaningful when Kind is KindSequence.
func (v Value) Sequence() []Value { return v.seq }

// ScalarValue builds a leaf node. Used by tests and synthetic payloads.
func ScalarValue(s any) Value { return Value{kind: KindScalar, scalar: s} }

// MappingValue builds a mapping node.
func MappingValue(m map[string]Value) Value { return Value{kind: KindMapping, mapping: m} }

// SequenceValue builds a sequence node.
func SequenceValue(items []Value) Value { return Value{kind: KindSequence, seq: items} }

// UnmarshalJSON decodes arbitrary JSON into the tagged variant, keeping
// numbers as json.Number.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

func fromAny(raw any) Value {
	switch t := raw.(type) {
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, child := range t {
			m[k] = fromAny(child)
		}
		return Value{kind: KindMapping, mapping: m}
	case []any:
		s := make([]Value, 0, len(t))
		for _, child := range t {
			s = append(s, fromAny(child))
		}
		return Value{kind: KindSequence, seq: s}
	default:
		// string, json.Number, bool, or nil
		return Value{kind: KindScalar, scalar: t}
	}
}

// Envelope is the outer shape of a real-time response. The live vendor API
// signals success with code=0/msg; some gateways report status="success"
// instead. Either indicator is accepted.
type Envelope struct {
	Status string `json:"status"`
	Code   *int   `json:"code"`
	Msg    string `json:"msg"`
	Time   string `json:"time"`
	Data   *Value `json:"data"`
}

// Validate confirms the envelope signals success and carries a mapping
// data container. The returned error carries only the observed status.
func (e *Envelope) Validate() error {
	observed := e.Status
	if observed == "" && e.Code != nil {
		observed = fmt.Sprintf("code=%d msg=%s", *e.Code, e.Msg)
	}

	ok := e.Status == "success" || (e.Code != nil && *e.Code == 0)
	if !ok {
		return &InvalidPayloadError{Status: observed, Reason: "missing or failed success indicator"}
	}
	if e.Data == nil || e.Data.Kind() != KindMapping {
		return &InvalidPayloadError{Status: observed, Reason: "data container absent or not a mapping"}
	}
	return nil
}
