package registry

// TagResult is the outcome of checking one image tag: either the tag does
// not exist (the zero value), or it exists with the required platforms it
// publishes. It is computed, compared and discarded within one invocation.
type TagResult struct {
	Exists    bool
	Platforms PlatformSet
}

// Complete reports whether the tag exists and covers every required platform.
func (r TagResult) Complete(required PlatformSet) bool {
	return r.Exists && r.Platforms.Covers(required)
}
