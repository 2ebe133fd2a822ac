package check

// Checker is implemented by all check types.
// Each check validates one artifact of the board integration
// and returns a Result indicating success or failure.
//
// Implementations:
//   - filecheck.Check: file exists and contains required tokens
//   - dircheck.Check: directory exists and holds required files
type Checker interface {
	Run() Result
}

// Named pairs a human-readable check name with its Checker.
type Named struct {
	Name    string
	Checker Checker
}
