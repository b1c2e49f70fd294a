package async

import "context"

// Worker is a long-running background task. Run blocks until ctx is
// cancelled and must call done exactly once on exit.
type Worker interface {
	Run(context.Context, func())
	Shutdown()
}
