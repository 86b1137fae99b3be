package relocation

// Result is the outcome of a relocation attempt.
type Result int

const (
	// ResultSuccess means the stored path now names the target (or already did).
	ResultSuccess Result = iota
	// ResultPreflightRejected means the target is unusable; nothing was touched
	// and the caller may ask for another path.
	ResultPreflightRejected
	// ResultAborted means a later step failed and the error was already reported.
	// The old repository is still authoritative.
	ResultAborted
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultPreflightRejected:
		return "preflight_rejected"
	case ResultAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
