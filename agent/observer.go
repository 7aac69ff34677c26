package agent

// Failure reasons passed to Observer.RunFailed.
const (
	FailureBackend        = "backend"
	FailureIterationLimit = "iteration_limit"
)

// Observer is notified of loop activity. Implementations must be safe for
// concurrent use since one Agent serves many conversations.
type Observer interface {
	TurnStarted()
	StreamFallback()
	ToolExecuted(name string, failed bool)
	RunFailed(reason string)
}

type nopObserver struct{}

func (nopObserver) TurnStarted()                          {}
func (nopObserver) StreamFallback()                       {}
func (nopObserver) ToolExecuted(name string, failed bool) {}
func (nopObserver) RunFailed(reason string)               {}
