package domain

// FailureKind classifies why a product was not published in a run
type FailureKind string

const (
	// The local row already carries a Shopify id or the published flag
	FailureAlreadyPublished FailureKind = "already_published"
	// The existence check found a matching SKU or title in Shopify
	FailureDuplicate FailureKind = "duplicate"
	// Required fields missing (title, product type)
	FailureInvalidPayload FailureKind = "invalid_payload"
	// Shopify answered the create call with a non-2xx status
	FailureRemoteRejected FailureKind = "remote_rejected"
	// The requested id does not exist in the local store
	FailureNotFound FailureKind = "not_found"
	// The local store could not be read
	FailureLoadFailed FailureKind = "load_failed"
	// The create call never got an answer (network, decoding)
	FailureRemoteError FailureKind = "remote_error"
)

// IsValid checks if the failure kind is known
func (k FailureKind) IsValid() bool {
	switch k {
	case FailureAlreadyPublished,
		FailureDuplicate,
		FailureInvalidPayload,
		FailureRemoteRejected,
		FailureNotFound,
		FailureLoadFailed,
		FailureRemoteError:
		return true
	default:
		return false
	}
}

// OutcomeStatus is the stored status of a publish event
type OutcomeStatus string

const (
	OutcomeStatusPublished OutcomeStatus = "published"
	OutcomeStatusFailed    OutcomeStatus = "failed"
)
