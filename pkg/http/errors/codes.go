package errors

// Default human-readable messages for the error envelope.
const (
	MsgBadRequest       = "bad request"
	MsgNotFound         = "resource not found"
	MsgMethodNotAllowed = "method not allowed"
	MsgUnprocessable    = "unprocessable"
	MsgInternalError    = "internal server error"
	MsgUpstreamError    = "upstream error"

	MsgInvalidPayload   = "invalid JSON payload"
	MsgQuestionNotFound = "question not found"
	MsgCategoryNotFound = "category not found"
)
