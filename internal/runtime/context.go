package runtime

// snapshot merges the given layers into a fresh map, later layers winning.
// Every expression evaluation gets its own snapshot so no step can alias
// or mutate the context seen by another.
func snapshot(layers ...map[string]any) map[string]any {
	merged := make(map[string]any)
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}
