package http

const (
	HeaderContentType  = "Content-Type"
	HeaderValueJson    = "application/json"
	HeaderValuePdf     = "application/pdf"
	HeaderDisposition  = "Content-Disposition"
	StatusFailed       = "failed"
	StatusSuccess      = "success"
	KeyStatus          = "status"
	KeyStatusCode      = "statusCode"
	KeyMessage         = "message"
	KeyData            = "data"
	MessageInternalErr = "Internal Server Error"
)
