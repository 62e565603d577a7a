package service

import "github.com/utpal74/ai-task-scheduler/metrics"

// Names of the best-effort steps that follow task persistence.
const (
	StepPlan     = "ai_plan"
	StepCalendar = "calendar_sync"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome reports what happened to one side effect of a request whose
// primary effect already succeeded.
type Outcome struct {
	Step   string `json:"step"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

func record(outcomes []Outcome, step string, status Status, err error) []Outcome {
	o := Outcome{Step: step, Status: status}
	if err != nil {
		o.Error = err.Error()
	}
	metrics.RecordSideEffect(step, string(status))
	return append(outcomes, o)
}

// Degraded reports whether any step did not complete.
func Degraded(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.Status != StatusOK {
			return true
		}
	}
	return false
}
