package production

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrInvalidRequest marks caller input the service cannot act on.
var ErrInvalidRequest = errors.New("invalid request")

// Service defines the production readiness queries used by the scheduling UI.
// Every call reads a fresh job snapshot; nothing is cached and nothing is written.
type Service interface {
	// JobReadiness diagnoses whether a job may proceed at its current stage.
	// With strict set, jobs whose method or stage is not in the stage graph are
	// rejected with ErrUnknownMethod or ErrUnknownStage instead of failing open.
	JobReadiness(ctx context.Context, id string, strict bool) (*JobReadiness, error)

	// OrderReadiness diagnoses every job of an order.
	OrderReadiness(ctx context.Context, orderID string) ([]*JobReadiness, error)

	// AvailableStages lists the stages that could start now for the job's order and method.
	AvailableStages(ctx context.Context, id string) ([]Stage, error)

	// CheckTransition reports whether a proposed status change is allowed.
	CheckTransition(ctx context.Context, id string, req TransitionRequest) (*TransitionCheck, error)

	// CalendarEvents returns calendar events for jobs scheduled in [from, to).
	CalendarEvents(ctx context.Context, from, to time.Time) ([]CalendarEvent, error)

	// StageGraph describes the configured stage graph.
	StageGraph() []MethodDefinition
}

type service struct {
	repo     Repository
	resolver Resolver
	logger   *log.Logger
}

// NewService creates a production readiness service. A nil logger uses log.Default().
func NewService(repo Repository, resolver Resolver, logger *log.Logger) Service {
	if logger == nil {
		logger = log.Default()
	}
	return &service{repo: repo, resolver: resolver, logger: logger}
}

func (s *service) JobReadiness(ctx context.Context, id string, strict bool) (*JobReadiness, error) {
	job, siblings, err := s.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckJob(*job); err != nil {
		if strict {
			return nil, err
		}
		s.flag(err)
	}
	return &JobReadiness{Job: *job, Readiness: s.resolver.ReadinessStatus(*job, siblings)}, nil
}

func (s *service) OrderReadiness(ctx context.Context, orderID string) ([]*JobReadiness, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: order_id is required", ErrInvalidRequest)
	}
	jobs, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order jobs: %w", err)
	}
	out := make([]*JobReadiness, 0, len(jobs))
	for _, j := range jobs {
		if err := s.resolver.CheckJob(j); err != nil {
			s.flag(err)
		}
		out = append(out, &JobReadiness{Job: j, Readiness: s.resolver.ReadinessStatus(j, jobs)})
	}
	return out, nil
}

func (s *service) AvailableStages(ctx context.Context, id string) ([]Stage, error) {
	job, siblings, err := s.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckJob(*job); err != nil {
		s.flag(err)
	}
	stages := s.resolver.AvailableStages(*job, siblings)
	if stages == nil {
		stages = []Stage{}
	}
	return stages, nil
}

func (s *service) CheckTransition(ctx context.Context, id string, req TransitionRequest) (*TransitionCheck, error) {
	if req.Status == "" {
		return nil, fmt.Errorf("%w: status is required", ErrInvalidRequest)
	}
	job, siblings, err := s.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	next := JobStatus(req.Status)
	check := &TransitionCheck{JobID: job.ID, From: job.Status, To: next}
	if !CanTransition(job.Status, next) {
		check.Reason = fmt.Sprintf("cannot transition job from %s to %s", job.Status, next)
		return check, nil
	}

	// Scheduling is the point where stage prerequisites gate the job.
	if job.Status == JobPending && next == JobScheduled {
		readiness := s.resolver.ReadinessStatus(*job, siblings)
		if !readiness.IsReady {
			check.Reason = readiness.Reason
			check.MissingDependencies = readiness.MissingDependencies
			return check, nil
		}
	}
	check.Allowed = true
	return check, nil
}

func (s *service) CalendarEvents(ctx context.Context, from, to time.Time) ([]CalendarEvent, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: to must be after from", ErrInvalidRequest)
	}
	jobs, err := s.repo.ListScheduledBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduled jobs: %w", err)
	}

	// Readiness needs each order's full job list, not just the scheduled window.
	var all []Job
	loaded := make(map[string]bool)
	for _, j := range jobs {
		if loaded[j.OrderID] {
			continue
		}
		loaded[j.OrderID] = true
		siblings, err := s.repo.ListByOrder(ctx, j.OrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to load order jobs: %w", err)
		}
		all = append(all, siblings...)
	}
	return CalendarEvents(jobs, s.resolver, all), nil
}

func (s *service) StageGraph() []MethodDefinition {
	return s.resolver.Graph().Describe()
}

// snapshot loads a job and every job of its order.
func (s *service) snapshot(ctx context.Context, id string) (*Job, []Job, error) {
	if id == "" {
		return nil, nil, fmt.Errorf("%w: id is required", ErrInvalidRequest)
	}
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	siblings, err := s.repo.ListByOrder(ctx, job.OrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order jobs: %w", err)
	}
	return job, siblings, nil
}

// flag records a graph configuration problem; the job is still treated permissively.
func (s *service) flag(err error) {
	s.logger.Printf("production: stage graph mismatch, failing open: %v", err)
}
