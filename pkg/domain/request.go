package domain

// RequestType identifies an outbound message.
type RequestType string

const (
	// RequestListCountries asks the upstream to enumerate selectable countries.
	RequestListCountries RequestType = "list_countries"

	// RequestListPaymentMethods asks for the payment methods of Country.
	RequestListPaymentMethods RequestType = "list_payment_methods"
)

// Request is a side-effect the controller asks the host to perform on the connection.
// Sending is fire-and-forget: the answer arrives later as an independent Event.
type Request struct {
	Type    RequestType `json:"type"`
	Country string      `json:"country,omitempty"`
	ID      int64       `json:"req_id"`
}
