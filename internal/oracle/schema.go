package oracle

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("score_range", func(fl validator.FieldLevel) bool {
		s := fl.Field().Float()
		return s >= 0 && s <= 100
	})

	_ = validate.RegisterValidation("nonempty", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// ScoreResponse is the answer shape for a stress judgment.
// Numbers are pointers so an omitted field fails "required" instead of reading as zero.
type ScoreResponse struct {
	Score          *float64 `json:"score" validate:"required,score_range"`
	Justification  string   `json:"justification" validate:"required,nonempty"`
	EstimatedHours *float64 `json:"estimatedHours" validate:"required,gte=0"`
}

// StepResponse is one entry of a ranked execution order.
type StepResponse struct {
	TaskID   string `json:"taskId" validate:"required,nonempty"`
	Sequence int    `json:"sequence" validate:"gte=1"`
	Category string `json:"category" validate:"required,nonempty"`
	Reason   string `json:"reason"`
}

// PrioritizationResponse is the answer shape for a ranking request.
type PrioritizationResponse struct {
	ExecutionOrder []StepResponse `json:"executionOrder" validate:"required,min=1,dive"`
	DailyStrategy  string         `json:"dailyStrategy" validate:"required,nonempty"`
}

// InsightResponse is the answer shape for a wellness insight.
type InsightResponse struct {
	Insight string `json:"insight" validate:"required,nonempty,max=600"`
}

// SimulationResponse is the answer shape for a schedule-shift forecast.
type SimulationResponse struct {
	NewStressScore    *float64 `json:"newStressScore" validate:"required,score_range"`
	BurnoutRisk       string   `json:"burnoutRisk" validate:"required,oneof=low moderate high critical"`
	Warning           string   `json:"warning" validate:"required,nonempty"`
	AlternativeAction string   `json:"alternativeAction" validate:"required,nonempty"`
}

// Schema examples appended to the system instruction.
const (
	ScoreSchema = `{"score": 0-100, "justification": "1-2 sentences", "estimatedHours": number}`

	PrioritizationSchema = `{"executionOrder": [{"taskId": "string", "sequence": 1, "category": "string", "reason": "string"}], "dailyStrategy": "one sentence"}`

	InsightSchema = `{"insight": "two short sentences"}`

	SimulationSchema = `{"newStressScore": 0-100, "burnoutRisk": "low|moderate|high|critical", "warning": "one sentence", "alternativeAction": "one sentence"}`
)

// ValidationError provides structured error information for schema validation failures
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationResult contains the result of schema validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidateStruct checks a decoded answer against its validate tags.
func ValidateStruct(s any) ValidationResult {
	err := validate.Struct(s)
	if err == nil {
		return ValidationResult{Valid: true}
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationResult{Errors: []ValidationError{{Message: err.Error()}}}
	}

	var errs []ValidationError
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: formatValidationError(fe),
		})
	}
	return ValidationResult{Errors: errs}
}

func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "nonempty":
		return fmt.Sprintf("%s cannot be empty or whitespace", err.Field())
	case "score_range":
		return fmt.Sprintf("%s must be between 0 and 100", err.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s items", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", err.Field(), err.Tag())
	}
}

// ErrorSummary returns a single string summarizing all validation errors
func (r ValidationResult) ErrorSummary() string {
	if r.Valid {
		return ""
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}
