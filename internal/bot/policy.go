package bot

// DirectLimit is the largest file the chat transport accepts as an
// attachment (Telegram's bot upload ceiling).
const DirectLimit int64 = 50 << 20

// Plan says which delivery paths to attempt for an acquired file. Both flags
// false means the file is too large and no cloud destination exists, a
// terminal failure before any delivery attempt.
type Plan struct {
	AttemptDirect bool
	AttemptCloud  bool
}

// Decide applies the delivery decision table: direct delivery only for files
// within the transport limit, cloud upload whenever a folder is configured,
// and both attempted independently when both apply.
func Decide(size int64, cloudConfigured bool) Plan {
	switch {
	case size <= DirectLimit && cloudConfigured:
		return Plan{AttemptDirect: true, AttemptCloud: true}
	case size <= DirectLimit:
		return Plan{AttemptDirect: true}
	case cloudConfigured:
		return Plan{AttemptCloud: true}
	default:
		return Plan{}
	}
}

// Outcome is the terminal delivery state reported to the user.
type Outcome int

const (
	DeliveredNeither Outcome = iota
	DeliveredDirect
	DeliveredCloud
	DeliveredBoth
)

// ResultOutcome folds the two attempt results into the reported outcome.
func ResultOutcome(directOK, cloudOK bool) Outcome {
	switch {
	case directOK && cloudOK:
		return DeliveredBoth
	case directOK:
		return DeliveredDirect
	case cloudOK:
		return DeliveredCloud
	default:
		return DeliveredNeither
	}
}
