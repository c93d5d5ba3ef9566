package production

import (
	"sort"
	"time"
)

// DefaultEventDuration is used for scheduled jobs without a usable end time.
const DefaultEventDuration = time.Hour

// CalendarEvent is a scheduled job as shown on the production calendar.
type CalendarEvent struct {
	ID            string           `json:"id"`
	JobID         string           `json:"job_id"`
	OrderID       string           `json:"order_id"`
	Title         string           `json:"title"`
	Start         time.Time        `json:"start"`
	End           time.Time        `json:"end"`
	Method        DecorationMethod `json:"method"`
	Stage         Stage            `json:"stage,omitempty"`
	Status        JobStatus        `json:"status"`
	Color         string           `json:"color"`
	Ready         bool             `json:"ready"`
	BlockedReason string           `json:"blocked_reason,omitempty"`
}

var methodLabels = map[DecorationMethod]string{
	MethodScreenPrinting: "Screen Printing",
	MethodEmbroidery:     "Embroidery",
	MethodDTF:            "DTF",
	MethodDTG:            "DTG",
}

var methodColors = map[DecorationMethod]string{
	MethodScreenPrinting: "#3b82f6",
	MethodEmbroidery:     "#8b5cf6",
	MethodDTF:            "#f59e0b",
	MethodDTG:            "#10b981",
}

const fallbackColor = "#6b7280"

// MethodLabel returns a display name for the method.
func MethodLabel(m DecorationMethod) string {
	if label, ok := methodLabels[m]; ok {
		return label
	}
	return string(m)
}

// EventWindow returns the span a scheduled job occupies on the calendar. A
// missing end, or one not after the start, becomes start + DefaultEventDuration.
func EventWindow(job Job) (start, end time.Time, ok bool) {
	if job.ScheduledStart == nil {
		return time.Time{}, time.Time{}, false
	}
	start = *job.ScheduledStart
	end = start.Add(DefaultEventDuration)
	if job.ScheduledEnd != nil && job.ScheduledEnd.After(start) {
		end = *job.ScheduledEnd
	}
	return start, end, true
}

// Overlaps reports whether the job's calendar span intersects [from, to).
func Overlaps(job Job, from, to time.Time) bool {
	start, end, ok := EventWindow(job)
	return ok && start.Before(to) && end.After(from)
}

// ToCalendarEvent converts a scheduled job into a calendar event. Jobs without
// a scheduled start have no place on the calendar and return ok=false.
func ToCalendarEvent(job Job, resolver Resolver, all []Job) (CalendarEvent, bool) {
	start, end, ok := EventWindow(job)
	if !ok {
		return CalendarEvent{}, false
	}

	title := job.Title
	if title == "" {
		title = MethodLabel(job.DecorationMethod)
		if job.CurrentStage != "" {
			title += " · " + string(job.CurrentStage)
		}
	}

	color, ok := methodColors[job.DecorationMethod]
	if !ok {
		color = fallbackColor
	}

	readiness := resolver.ReadinessStatus(job, all)
	return CalendarEvent{
		ID:            "job-" + job.ID,
		JobID:         job.ID,
		OrderID:       job.OrderID,
		Title:         title,
		Start:         start,
		End:           end,
		Method:        job.DecorationMethod,
		Stage:         job.CurrentStage,
		Status:        job.Status,
		Color:         color,
		Ready:         readiness.IsReady,
		BlockedReason: readiness.Reason,
	}, true
}

// CalendarEvents converts every scheduled job in jobs, ordered by start time then job id.
// Readiness is evaluated against all.
func CalendarEvents(jobs []Job, resolver Resolver, all []Job) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(jobs))
	for _, j := range jobs {
		if ev, ok := ToCalendarEvent(j, resolver, all); ok {
			events = append(events, ev)
		}
	}
	sort.Slice(events, func(a, b int) bool {
		if !events[a].Start.Equal(events[b].Start) {
			return events[a].Start.Before(events[b].Start)
		}
		return events[a].JobID < events[b].JobID
	})
	return events
}
