package metadata

/**
 * @brief Describes a job to be run by the job system.
 * Run executes on a worker goroutine; the callbacks run on the same worker
 * right after it and must only touch state guarded for concurrent use.
 */
type JobTask struct {
	Name string
	/** @brief The work itself. Required. */
	Run func() (interface{}, error)
	/** @brief Invoked with the result when Run succeeds. Optional. */
	OnComplete func(result interface{})
	/** @brief Invoked with the error when Run fails. Optional. */
	OnFailure func(err error)
	/** @brief Invoked after either outcome. Optional. */
	OnCompletionCallback func()
}
