package runtime

// ApplyOutputMapping reshapes the flat answer map into the nested result
// structure described by the mapping spec. A spec value that is itself a mapping
// produces a nested object; a string value naming a present answer key
// produces a direct assignment; a string naming an absent key is silently
// dropped.
func ApplyOutputMapping(answers map[string]any, spec map[string]any) map[string]any {
	result := make(map[string]any)
	for key, value := range spec {
		switch v := value.(type) {
		case map[string]any:
			result[key] = ApplyOutputMapping(answers, v)
		case string:
			if answer, ok := answers[v]; ok {
				result[key] = answer
			}
		}
	}
	return result
}
