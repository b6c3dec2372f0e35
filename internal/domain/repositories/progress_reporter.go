package repositories

// ProgressReporter receives the user-facing progress of a discovery run.
type ProgressReporter interface {
	Log(message string)
	// ForItem runs action while reporting it as "<label> <name>".
	ForItem(label, name string, action func() error) error
}
