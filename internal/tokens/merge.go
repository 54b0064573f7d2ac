package tokens

// Merge deep-merges override onto base and returns a new tree. Nested objects
// merge recursively while both sides are objects; any other override value,
// arrays included, replaces the base value wholesale. Neither input is
// modified and the result shares no containers with them.
func Merge(base, override map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(base)+len(override))

	for k, v := range base {
		result[k] = cloneValue(v)
	}

	for k, ov := range override {
		bv, exists := result[k]
		if exists {
			bm, baseIsMap := bv.(map[string]interface{})
			om, overrideIsMap := ov.(map[string]interface{})
			if baseIsMap && overrideIsMap {
				result[k] = Merge(bm, om)
				continue
			}
		}
		result[k] = cloneValue(ov)
	}

	return result
}

// Clone returns a deep copy of a token tree.
func Clone(tree map[string]interface{}) map[string]interface{} {
	if tree == nil {
		return nil
	}

	return cloneValue(tree).(map[string]interface{})
}

func cloneValue(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, child := range x {
			out[k] = cloneValue(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, child := range x {
			out[i] = cloneValue(child)
		}
		return out
	default:
		return v
	}
}
