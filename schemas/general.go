package schemas

// ReturnData statuses
const (
	OK    = "OK"
	ERROR = "ERROR"
	NULL  = "NULL"
)

// ReturnData is the uniform result every event resolves to
type ReturnData struct {
	Status  string
	Message string
	Data    map[string]interface{}
}

// NewOK creates a successful ReturnData
func NewOK() ReturnData {
	return ReturnData{Status: OK}
}

// NewOKMessage creates a successful ReturnData with a message
func NewOKMessage(message string) ReturnData {
	return ReturnData{Status: OK, Message: message}
}

// NewError creates a caller-correctable failure ReturnData
func NewError(message string) ReturnData {
	return ReturnData{Status: ERROR, Message: message}
}

// NewNull creates a resource-not-found ReturnData
func NewNull(message string) ReturnData {
	return ReturnData{Status: NULL, Message: message}
}

// Add sets a payload field and returns the ReturnData for chaining
func (rt ReturnData) Add(key string, value interface{}) ReturnData {
	if rt.Data == nil {
		rt.Data = map[string]interface{}{}
	}
	rt.Data[key] = value
	return rt
}

// JSON flattens status, message and payload into one response map
func (rt ReturnData) JSON() map[string]interface{} {
	out := map[string]interface{}{
		"status":  rt.Status,
		"message": rt.Message,
	}
	for k, v := range rt.Data {
		out[k] = v
	}
	return out
}
