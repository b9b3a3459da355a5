package ecowitt

// Flatten walks the data container and returns one entry per scalar leaf,
// keyed by the dot-joined path of its ancestor keys. Sequences are opaque:
// the vendor's real-time payload nests only mappings, and index-keyed
// entries would make the flat key set unstable across payloads, so
// sequence-valued nodes are dropped. JSON null leaves are kept (value nil)
// and left for the mapper to classify.
func Flatten(root Value) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", root)
	return out
}

func flattenInto(out map[string]any, prefix string, v Value) {
	switch v.Kind() {
	case KindMapping:
		for k, child := range v.Mapping() {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenInto(out, key, child)
		}
	case KindSequence:
		// opaque
	case KindScalar:
		if prefix == "" {
			// a bare scalar root has no path; nothing to emit
			return
		}
		out[prefix] = v.Scalar()
	}
}
