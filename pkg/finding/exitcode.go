package finding

// ExitCode computes the process exit code from a normalized, suppression-
// applied finding set: 0 if none, after excluding Ignored findings, meet
// or exceed floor; 1 otherwise. Per spec.md §8 property 6 ("severity
// monotonicity"), raising floor never increases the result and lowering it
// never decreases the emitted finding count that feeds it.
func ExitCode(findings []Finding, floor Severity) int {
	for _, f := range findings {
		if !f.Ignored && f.Severity >= floor {
			return 1
		}
	}
	return 0
}

// CountsBySeverity tallies non-ignored findings by severity, for the
// renderer's trailing summary line.
func CountsBySeverity(findings []Finding) map[Severity]int {
	counts := map[Severity]int{}
	for _, f := range findings {
		if !f.Ignored {
			counts[f.Severity]++
		}
	}
	return counts
}

// SuppressedCount counts findings marked Ignored.
func SuppressedCount(findings []Finding) int {
	n := 0
	for _, f := range findings {
		if f.Ignored {
			n++
		}
	}
	return n
}
