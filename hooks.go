package rivulet

// invokeBestEffort recovers any panic from fn: hook failures are swallowed
// and never abort the pipeline.
func invokeBestEffort(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
