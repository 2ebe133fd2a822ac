package check

// Report is the ordered outcome of one run of checks.
type Report struct {
	Results []Result
}

// Run executes every check in order. A failing check never stops the run.
func Run(checks []Named) Report {
	report := Report{Results: make([]Result, 0, len(checks))}
	for _, c := range checks {
		result := c.Checker.Run()
		if result.Name == "" {
			result.Name = c.Name
		}
		report.Results = append(report.Results, result)
	}
	return report
}

// OK returns true if every result passed.
func (r Report) OK() bool {
	for _, res := range r.Results {
		if !res.OK() {
			return false
		}
	}
	return true
}

// Failed returns the results that did not pass, in order.
func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}
