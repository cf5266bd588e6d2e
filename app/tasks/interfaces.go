package tasks

// TaskSchedulerInterface is the scheduler surface used by the main
// application: start/stop the worker pool and hand it tasks.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
