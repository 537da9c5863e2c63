package response

// Status codes carried in the envelope "code" field. They are plain integers
// shaped after HTTP statuses; StatusWarn is a custom code for operations that
// succeeded but need the caller's attention.
const (
	StatusSuccess         = 200
	StatusCreated         = 201
	StatusAccepted        = 202
	StatusNoContent       = 204
	StatusMovedPerm       = 301
	StatusSeeOther        = 303
	StatusNotModified     = 304
	StatusBadRequest      = 400
	StatusUnauthorized    = 401
	StatusForbidden       = 403
	StatusNotFound        = 404
	StatusBadMethod       = 405
	StatusConflict        = 409
	StatusUnsupportedType = 415
	StatusError           = 500
	StatusNotImplemented  = 501
	StatusWarn            = 601
)

const (
	// Success is the only code IsSuccess accepts.
	Success = StatusSuccess
	// Failure is used by every fail constructor that takes no explicit code.
	Failure = StatusError
)

// Default message keys, resolved against the message catalog by callers.
const (
	MessageSuccessful = "operation.successful"
	MessageFailed     = "operation.failed"
)

// Outcome classifies a code into success, warn or fail.
func Outcome(code int) string {
	switch code {
	case Success:
		return "success"
	case StatusWarn:
		return "warn"
	default:
		return "fail"
	}
}
