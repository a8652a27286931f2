package contract

import (
	"time"

	"github.com/alexanderramin/prodsched/internal/calendar"
)

// ResourceConstraint toggles machine contention for one machine type.
type ResourceConstraint struct {
	Enabled bool
	// Capacity limits the run to the first N machines of the type. Zero
	// means all.
	Capacity int
}

type GenerateRequest struct {
	WorkingHours int
	// ResourceConstraints overrides the configured constraints per machine
	// type. Types not listed keep their configured setting.
	ResourceConstraints map[string]ResourceConstraint
	// Now pins the planning clock; nil means the current time.
	Now *time.Time
}

func NewGenerateRequest(hours int) GenerateRequest {
	return GenerateRequest{WorkingHours: hours}
}

// Validate checks the request shape before any data is loaded.
func (r GenerateRequest) Validate() error {
	if _, err := calendar.NetDailyMinutes(r.WorkingHours); err != nil {
		return &GenerateError{Code: GenerateErrInvalidWorkingHours, Message: err.Error()}
	}
	for mt, rc := range r.ResourceConstraints {
		if rc.Capacity < 0 {
			return &GenerateError{Code: GenerateErrInvalidRequest, Message: "negative capacity for " + mt}
		}
	}
	return nil
}

type GenerateResponse struct {
	RunID              string
	WorkingHours       int
	ConstrainedCount   int
	UnconstrainedCount int
	TotalCount         int
	Makespan           *time.Time
	Warnings           []string
	Iterations         int
	BackfilledSteps    int
}

type GenerateErrorCode string

const (
	GenerateErrInvalidWorkingHours GenerateErrorCode = "INVALID_WORKING_HOURS"
	GenerateErrInvalidRequest      GenerateErrorCode = "INVALID_REQUEST"
	GenerateErrRunInProgress       GenerateErrorCode = "RUN_IN_PROGRESS"
	GenerateErrMissingCapacity     GenerateErrorCode = "MISSING_CAPACITY"
	GenerateErrIncomplete          GenerateErrorCode = "SCHEDULING_INCOMPLETE"
	GenerateErrPersistence         GenerateErrorCode = "PERSISTENCE_FAILURE"
	GenerateErrInternal            GenerateErrorCode = "INTERNAL_ERROR"
)

// GenerateError is the typed failure of a generation run. Err keeps the
// underlying cause for errors.Is/As.
type GenerateError struct {
	Code    GenerateErrorCode
	Message string
	Err     error
}

func (e *GenerateError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *GenerateError) Unwrap() error {
	return e.Err
}
