package convert

// FailureKind classifies a conversion failure for HTTP status mapping.
type FailureKind string

const (
	// FailureValidation marks input rejected before any resource was used.
	FailureValidation FailureKind = "validation"
	// FailureAuth marks a request denied by the key check.
	FailureAuth FailureKind = "auth"
	// FailureEngine marks a non-zero engine exit; the message is a sanitized
	// stderr excerpt.
	FailureEngine FailureKind = "engine"
	// FailureTimeout marks an engine run that exceeded the per-request limit.
	FailureTimeout FailureKind = "timeout"
	// FailureInternal marks unexpected pipeline failures. The message is
	// always generic; detail goes to server-side logs only.
	FailureInternal FailureKind = "internal"
)

// Result is the outcome of a conversion: either rendered bytes with their
// media type, or a failure kind with a client-safe message.
type Result struct {
	OK          bool
	Bytes       []byte
	ContentType string
	Kind        FailureKind
	Message     string
}

// Success builds a successful result.
func Success(data []byte, contentType string) Result {
	return Result{OK: true, Bytes: data, ContentType: contentType}
}

// Failure builds a failed result with a client-safe message.
func Failure(kind FailureKind, message string) Result {
	return Result{Kind: kind, Message: message}
}
