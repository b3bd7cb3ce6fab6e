// Package scheduler is the client for the console's Scheduler API: batch
// jobs, their schedules and execution status.
package scheduler

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/consoleops/go-admin-client/apiclient"
	"github.com/consoleops/go-admin-client/apierror"
)

// JobStatus represents the lifecycle state of a scheduled job.
type JobStatus string

const (
	JobStatusUnscheduled JobStatus = "unscheduled"
	JobStatusScheduled   JobStatus = "scheduled"
	JobStatusExecuting   JobStatus = "executing"
	JobStatusExecuted    JobStatus = "executed"
	JobStatusAborted     JobStatus = "aborted"
	JobStatusFailed      JobStatus = "failed"
)

// Job is a schedulable unit of batch work.
type Job struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	SchedulingPattern string     `json:"schedulingPattern"` // cron expression
	JobClass          string     `json:"jobClass"`
	Enabled           bool       `json:"enabled"`
	Status            JobStatus  `json:"status,omitempty"`
	ExecutionAttempts int        `json:"executionAttempts,omitempty"`
	LastExecuted      *time.Time `json:"lastExecuted,omitempty"`
	NextExecution     *time.Time `json:"nextExecution,omitempty"`
}

// JobParameter is a named parameter passed to a job at execution time.
type JobParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Client provides access to the Scheduler API.
type Client struct {
	api *apiclient.Client
}

// NewClient creates a Scheduler API client.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// GetJobs retrieves all jobs.
func (c *Client) GetJobs(ctx context.Context) ([]Job, error) {
	var jobs []Job
	if err := c.api.Get(ctx, "/jobs", &jobs); err != nil {
		return nil, errors.Wrap(err, "[GetJobs]")
	}
	return jobs, nil
}

// GetJob retrieves a single job by ID.
func (c *Client) GetJob(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	if err := c.api.Get(ctx, "/jobs/"+url.PathEscape(jobID), &job); err != nil {
		if errors.Is(err, apierror.ErrNotFound) {
			return nil, &JobNotFoundError{JobID: jobID}
		}
		return nil, errors.Wrap(err, "[GetJob]")
	}
	return &job, nil
}

// CreateJob creates a new job.
func (c *Client) CreateJob(ctx context.Context, job Job) error {
	if err := c.api.Post(ctx, "/jobs", job, nil); err != nil {
		if errors.Is(err, apierror.ErrConflict) {
			return &DuplicateJobError{JobID: job.ID}
		}
		return errors.Wrap(err, "[CreateJob]")
	}
	return nil
}

// DeleteJob deletes a job by ID.
func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	if err := c.api.Delete(ctx, "/jobs/"+url.PathEscape(jobID)); err != nil {
		if errors.Is(err, apierror.ErrNotFound) {
			return &JobNotFoundError{JobID: jobID}
		}
		return errors.Wrap(err, "[DeleteJob]")
	}
	return nil
}

// GetJobParameters retrieves the parameters configured for a job.
func (c *Client) GetJobParameters(ctx context.Context, jobID string) ([]JobParameter, error) {
	var parameters []JobParameter
	path := "/jobs/" + url.PathEscape(jobID) + "/parameters"
	if err := c.api.Get(ctx, path, &parameters); err != nil {
		if errors.Is(err, apierror.ErrNotFound) {
			return nil, &JobNotFoundError{JobID: jobID}
		}
		return nil, errors.Wrap(err, "[GetJobParameters]")
	}
	return parameters, nil
}
