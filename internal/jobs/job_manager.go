package jobs

import (
	"fmt"
)

// Job is a scheduled task that can be started and stopped.
type Job interface {
	Start() error
	Stop()
}

// JobManager starts and stops the application's scheduled jobs as a group.
type JobManager struct {
	jobs map[string]Job
	// start order, so jobs stop in reverse
	names []string
}

func NewJobManager() *JobManager {
	return &JobManager{jobs: make(map[string]Job)}
}

// Add registers a job under name. Adding a name twice replaces the job.
func (jm *JobManager) Add(name string, job Job) *JobManager {
	if _, ok := jm.jobs[name]; !ok {
		jm.names = append(jm.names, name)
	}
	jm.jobs[name] = job
	return jm
}

// StartAll starts every job. If one fails, the jobs already started are
// stopped and the error is returned.
func (jm *JobManager) StartAll() error {
	for i, name := range jm.names {
		if err := jm.jobs[name].Start(); err != nil {
			jm.stop(jm.names[:i])
			return fmt.Errorf("failed to start %s job: %w", name, err)
		}
	}
	return nil
}

func (jm *JobManager) StopAll() {
	jm.stop(jm.names)
}

func (jm *JobManager) stop(names []string) {
	for i := len(names) - 1; i >= 0; i-- {
		jm.jobs[names[i]].Stop()
	}
}
