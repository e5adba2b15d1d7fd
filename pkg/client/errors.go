package client

// ErrorClass represents a classification of upstream failures, used for
// metrics and retry policy. The fetch client never surfaces these to
// callers; they exist for observability.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors other than 404/429.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents HTTP 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents timeouts and transport errors.
	ErrorClassNetwork ErrorClass = "network"
)

// outcome is the internal classification of one request attempt.
type outcome int

const (
	// outcomeSuccess carries a parsed JSON payload.
	outcomeSuccess outcome = iota

	// outcomeNegative is definitive: 404, empty body, unparsable payload,
	// or a non-retriable error status. Cached as absence, never retried.
	outcomeNegative

	// outcomeRateLimited is HTTP 429, retried with exponential backoff.
	outcomeRateLimited

	// outcomeTransient is a timeout or transport error, retried after a
	// short fixed pause.
	outcomeTransient
)

// classifyStatus maps an HTTP status code to an error class.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == 429:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}
