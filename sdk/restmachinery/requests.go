package restmachinery

// OutboundRequest describes a single call to the API server.
type OutboundRequest struct {
	Method      string
	Path        string
	QueryParams map[string]string
	AuthHeaders map[string]string
	Headers     map[string]string
	// ReqBodyObj is sent as JSON unless it is already a []byte.
	ReqBodyObj interface{}
	// FormFields, when non-empty, are sent as a multipart/form-data body and
	// ReqBodyObj is ignored.
	FormFields map[string]string
	// SuccessCode, when zero, accepts any 2xx status.
	SuccessCode int
	RespObj     interface{}
}
