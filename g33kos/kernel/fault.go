package kernel

// FaultPhase says when a stack guard was found corrupted.
type FaultPhase uint8

const (
	// FaultBeforePoll: the guard was already corrupted when the cycle reached the task.
	FaultBeforePoll FaultPhase = iota + 1
	// FaultAfterPoll: the task corrupted its guard during the poll that just returned.
	FaultAfterPoll
)

func (p FaultPhase) String() string {
	switch p {
	case FaultBeforePoll:
		return "before poll"
	case FaultAfterPoll:
		return "after poll"
	default:
		return "unknown"
	}
}

// Fault describes a task stopped because its stack guard tripped.
//
// It is fatal to that task only.
type Fault struct {
	TaskID TaskID
	Name   string
	Phase  FaultPhase
	Tick   uint32
}

// FaultHandler receives faults synchronously from RunReady. It must not block.
type FaultHandler func(Fault)
