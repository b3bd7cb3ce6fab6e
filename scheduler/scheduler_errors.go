package scheduler

// JobNotFoundError indicates the requested job does not exist.
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return "job not found: " + e.JobID
}

// DuplicateJobError indicates a job with the same ID already exists.
type DuplicateJobError struct {
	JobID string
}

func (e *DuplicateJobError) Error() string {
	return "duplicate job: " + e.JobID
}
