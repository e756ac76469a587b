package media

// ResolveUploadOptions merges the three layers of upload request options
// into one fully-resolved set. Precedence, lowest to highest: defaults,
// derived (values computed from the selected policy), override
// (caller-supplied). A key present in a higher layer replaces the lower
// layer's value entirely.
func ResolveUploadOptions(defaults, derived, override map[string]string) map[string]string {
	resolved := make(map[string]string, len(defaults)+len(derived)+len(override))
	for k, v := range defaults {
		resolved[k] = v
	}
	for k, v := range derived {
		resolved[k] = v
	}
	for k, v := range override {
		resolved[k] = v
	}
	return resolved
}
