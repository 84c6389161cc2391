package session

import "fmt"

// ErrorKind classifies terminal failures of a controller operation
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindLocationUnavailable
	KindCityNotFound
	KindInputInvalid
	KindServiceUnavailable
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindLocationUnavailable:
		return "LOCATION_UNAVAILABLE"
	case KindCityNotFound:
		return "CITY_NOT_FOUND"
	case KindInputInvalid:
		return "INPUT_INVALID"
	case KindServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// User-visible messages
const (
	MsgGeolocationUnsupported = "Geolocation not supported"
	MsgGeolocationDenied      = "Location access denied. Search manually."
	MsgEnterCity              = "Enter a city name"
	MsgCityNotFound           = "City not found"
	MsgServiceUnavailable     = "Unable to fetch weather. Check your connection."
)

// Error is returned by every controller operation that ends in the Failed state.
// Message is exactly what the renderer was given.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
