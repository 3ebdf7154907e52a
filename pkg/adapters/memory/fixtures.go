package memory

import "github.com/aretw0/paylist/pkg/domain"

// SampleCountries is a small residence list used by the offline mode and tests.
var SampleCountries = []domain.Country{
	{Value: "br", Label: "Brazil"},
	{Value: "in", Label: "India"},
	{Value: "id", Label: "Indonesia"},
	{Value: "ng", Label: "Nigeria"},
}

// SamplePaymentMethods maps a country code to its canned payment methods.
var SamplePaymentMethods = map[string][]domain.PaymentMethod{
	"br": {
		{"id": "pix", "display_name": "Pix", "type_display_name": "Bank transfer", "supported_currencies": []any{"BRL"}, "deposit_time": "instant", "withdrawal_time": "1 day"},
		{"id": "visa", "display_name": "Visa", "type_display_name": "Card", "supported_currencies": []any{"USD", "BRL"}, "deposit_time": "instant", "withdrawal_time": "3 days"},
	},
	"in": {
		{"id": "upi", "display_name": "UPI", "type_display_name": "Bank transfer", "supported_currencies": []any{"INR"}, "deposit_time": "instant", "withdrawal_time": "1 day"},
		{"id": "visa", "display_name": "Visa", "type_display_name": "Card", "supported_currencies": []any{"USD"}, "deposit_time": "instant", "withdrawal_time": "3 days"},
	},
	"id": {
		{"id": "ovo", "display_name": "OVO", "type_display_name": "E-wallet", "supported_currencies": []any{"IDR"}, "deposit_time": "instant", "withdrawal_time": "1 day"},
	},
}

// SampleResponder answers requests from the sample data, echoing request ids.
// Countries without canned data get an empty list.
func SampleResponder(req domain.Request) []domain.Event {
	var ev domain.Event
	switch req.Type {
	case domain.RequestListCountries:
		ev = domain.CountriesReceived(SampleCountries...)
	case domain.RequestListPaymentMethods:
		ev = domain.MethodsReceived(SamplePaymentMethods[req.Country]...)
	default:
		return nil
	}
	ev.RequestID = req.ID
	return []domain.Event{ev}
}
