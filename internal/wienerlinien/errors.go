package wienerlinien

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable is the umbrella error for anything that prevents a
// usable departure list: network failure, non-OK status, malformed body.
// An empty but well-formed result is not an error.
var ErrSourceUnavailable = errors.New("departure source unavailable")

// APIError carries details of a failed monitor request.
type APIError struct {
	StatusCode int
	Status     string
	RBLs       []int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("monitor request for RBLs %v failed: %d %s", e.RBLs, e.StatusCode, e.Status)
}

// Is makes every APIError match ErrSourceUnavailable.
func (e *APIError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// Server codes the API embeds in an otherwise successful response. They are
// informational (a stop with code 311 simply has no upcoming service) and
// surface as log warnings, never as errors.
var serverCodeText = map[int]string{
	311: "no departures found",
	316: "invalid RBL number",
	320: "service unavailable",
}

func serverCodeString(code int, fallback string) string {
	if s, ok := serverCodeText[code]; ok {
		return s
	}
	if fallback != "" {
		return fallback
	}
	return "unknown error"
}
