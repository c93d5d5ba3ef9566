package production

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors reported by Resolver.CheckJob.
var (
	// ErrUnknownMethod means the job's decoration method is not in the stage graph.
	ErrUnknownMethod = errors.New("unknown decoration method")

	// ErrUnknownStage means the job's current stage is not defined for its method.
	ErrUnknownStage = errors.New("unknown production stage")
)

// Resolver answers readiness questions about decoration jobs.
//
// It holds only the immutable stage graph. Every call works on the job
// snapshot passed in, so a Resolver is safe for concurrent use. Unknown
// methods and stages fail open: they have no prerequisites and are never
// reported as completed.
type Resolver struct {
	graph StageGraph
}

// NewResolver returns a resolver over the given graph.
func NewResolver(graph StageGraph) Resolver { return Resolver{graph: graph} }

// Graph returns the stage graph the resolver was built with.
func (r Resolver) Graph() StageGraph { return r.graph }

// RelatedJobs returns the other jobs of the same order and decoration method,
// in the order they appear in all.
func (r Resolver) RelatedJobs(job Job, all []Job) []Job {
	var related []Job
	for _, j := range all {
		if j.OrderID == job.OrderID && j.DecorationMethod == job.DecorationMethod && j.ID != job.ID {
			related = append(related, j)
		}
	}
	return related
}

// IsStageCompleted reports whether stage has been passed within the job's
// order and method group.
//
// A completed job has passed its current stage and every earlier one, or every
// stage when it carries no stage. A related job that is not completed has passed
// stage when its current stage sits strictly later in the method's stage order.
// The job's own unfinished position is never evidence: it is the stage being gated.
func (r Resolver) IsStageCompleted(stage Stage, job Job, all []Job) bool {
	target := r.graph.StageIndex(job.DecorationMethod, stage)
	if target < 0 {
		return false
	}

	group := append([]Job{job}, r.RelatedJobs(job, all)...)
	for i, j := range group {
		pos := r.graph.StageIndex(j.DecorationMethod, j.CurrentStage)
		if j.Status == JobCompleted {
			if pos < 0 || pos >= target {
				return true
			}
			continue
		}
		if i > 0 && pos > target {
			return true
		}
	}
	return false
}

// IsJobReadyForStage reports whether the job may proceed at its current stage.
func (r Resolver) IsJobReadyForStage(job Job, all []Job) bool {
	switch job.Status {
	case JobScheduled, JobInProgress, JobCompleted:
		return true
	}
	if job.CurrentStage == "" {
		return true
	}
	for _, dep := range r.graph.Dependencies(job.DecorationMethod, job.CurrentStage) {
		if !r.IsStageCompleted(dep, job, all) {
			return false
		}
	}
	return true
}

// ReadinessStatus explains IsJobReadyForStage. When the job is not ready the
// result lists the outstanding prerequisites in graph order.
func (r Resolver) ReadinessStatus(job Job, all []Job) ReadinessStatus {
	if job.CurrentStage == "" || r.IsJobReadyForStage(job, all) {
		return ReadinessStatus{IsReady: true}
	}

	missing := r.missingDependencies(job.CurrentStage, job, all)
	if len(missing) == 0 {
		return ReadinessStatus{IsReady: true}
	}
	return ReadinessStatus{
		IsReady:             false,
		Reason:              waitingFor(missing),
		MissingDependencies: missing,
	}
}

// AvailableStages lists, in stage order, every stage of the job's method whose
// prerequisites are all completed within the job's order and method group.
// The job's own current stage is not taken into account.
func (r Resolver) AvailableStages(job Job, all []Job) []Stage {
	var available []Stage
	for _, stage := range r.graph.Stages(job.DecorationMethod) {
		if len(r.missingDependencies(stage, job, all)) == 0 {
			available = append(available, stage)
		}
	}
	return available
}

// CheckJob validates a job against the graph without affecting readiness.
// Callers wanting strict behaviour can refuse jobs that fail this check.
func (r Resolver) CheckJob(job Job) error {
	if !r.graph.HasMethod(job.DecorationMethod) {
		return fmt.Errorf("job %s: %w %q", job.ID, ErrUnknownMethod, job.DecorationMethod)
	}
	if job.CurrentStage != "" && r.graph.StageIndex(job.DecorationMethod, job.CurrentStage) < 0 {
		return fmt.Errorf("job %s: %w %q for %s", job.ID, ErrUnknownStage, job.CurrentStage, job.DecorationMethod)
	}
	return nil
}

func (r Resolver) missingDependencies(stage Stage, job Job, all []Job) []Stage {
	var missing []Stage
	for _, dep := range r.graph.Dependencies(job.DecorationMethod, stage) {
		if !r.IsStageCompleted(dep, job, all) {
			missing = append(missing, dep)
		}
	}
	return missing
}

func waitingFor(stages []Stage) string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = string(s)
	}
	return "Waiting for: " + strings.Join(names, ", ")
}
