package production

import "time"

// DecorationMethod is the garment decoration technique a job uses.
type DecorationMethod string

const (
	MethodScreenPrinting DecorationMethod = "screen_printing"
	MethodEmbroidery     DecorationMethod = "embroidery"
	MethodDTF            DecorationMethod = "dtf"
	MethodDTG            DecorationMethod = "dtg"
)

// Stage is a named production step. Stage names are scoped to a decoration method.
type Stage string

const (
	StageBurnScreens Stage = "burn_screens"
	StageMixInk      Stage = "mix_ink"
	StagePrint       Stage = "print"

	StageDigitize  Stage = "digitize"
	StageHoop      Stage = "hoop"
	StageEmbroider Stage = "embroider"

	StageDesignFile Stage = "design_file"
	StageDTFPrint   Stage = "dtf_print"
	StagePowder     Stage = "powder"
	StageCure       Stage = "cure"

	StagePretreat Stage = "pretreat"
	StageDTGPrint Stage = "dtg_print"
	StageDTGCure  Stage = "dtg_cure"
)

// JobStatus represents the lifecycle state of a decoration job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobScheduled  JobStatus = "scheduled"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
)

// validTransitions defines the allowed state machine transitions for decoration jobs.
var validTransitions = map[JobStatus][]JobStatus{
	JobPending:    {JobScheduled},
	JobScheduled:  {JobPending, JobInProgress},
	JobInProgress: {JobCompleted},
	JobCompleted:  {},
}

// CanTransition returns true if the transition from current to next is valid.
func CanTransition(current, next JobStatus) bool {
	allowed, ok := validTransitions[current]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

// Job is a snapshot of one schedulable unit of decoration work.
// An empty CurrentStage means the job has not entered its method's stage graph yet.
type Job struct {
	ID               string           `json:"id"`
	OrderID          string           `json:"order_id"`
	DecorationMethod DecorationMethod `json:"decoration_method"`
	CurrentStage     Stage            `json:"current_stage,omitempty"`
	Status           JobStatus        `json:"status"`
	Title            string           `json:"title,omitempty"`
	ScheduledStart   *time.Time       `json:"scheduled_start,omitempty"`
	ScheduledEnd     *time.Time       `json:"scheduled_end,omitempty"`
}

// ReadinessStatus explains whether a job may proceed at its current stage.
type ReadinessStatus struct {
	IsReady             bool    `json:"is_ready"`
	Reason              string  `json:"reason,omitempty"`
	MissingDependencies []Stage `json:"missing_dependencies,omitempty"`
}

// JobReadiness pairs a job snapshot with its readiness diagnosis.
type JobReadiness struct {
	Job       Job             `json:"job"`
	Readiness ReadinessStatus `json:"readiness"`
}

// TransitionRequest is the payload for asking whether a status change is allowed.
type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=pending scheduled in_progress completed"`
}

// TransitionCheck is the advisory answer to a TransitionRequest.
type TransitionCheck struct {
	JobID               string    `json:"job_id"`
	From                JobStatus `json:"from"`
	To                  JobStatus `json:"to"`
	Allowed             bool      `json:"allowed"`
	Reason              string    `json:"reason,omitempty"`
	MissingDependencies []Stage   `json:"missing_dependencies,omitempty"`
}

// CalendarQuery bounds a calendar lookup. Both ends are RFC3339 timestamps.
type CalendarQuery struct {
	From string `validate:"required"`
	To   string `validate:"required"`
}
