package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/paylist/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Message types of the recognized responses.
const (
	MsgResidenceList  = "residence_list"
	MsgPaymentMethods = "payment_methods"
)

// residence is one entry of a residence_list response.
// Unknown keys (phone_idd, identity, tin_format...) are ignored.
type residence struct {
	Value string `mapstructure:"value"`
	Text  string `mapstructure:"text"`
}

// Encode serializes an outbound request.
func Encode(req domain.Request) ([]byte, error) {
	payload := map[string]any{}
	switch req.Type {
	case domain.RequestListCountries:
		payload[MsgResidenceList] = 1
	case domain.RequestListPaymentMethods:
		if req.Country == "" {
			return nil, fmt.Errorf("payment methods request requires a country")
		}
		payload[MsgPaymentMethods] = req.Country
	default:
		return nil, fmt.Errorf("unsupported request type %q", req.Type)
	}
	if req.ID > 0 {
		payload["req_id"] = req.ID
	}
	return json.Marshal(payload)
}

// Decode classifies an inbound frame. It returns false when the frame is not a
// countries or payment-methods response.
func Decode(data []byte) (domain.Event, bool) {
	var frame map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&frame); err != nil {
		return domain.Event{}, false
	}
	if _, failed := frame["error"]; failed {
		return domain.Event{}, false
	}

	msgType, _ := frame["msg_type"].(string)
	if msgType == "" {
		msgType = inferType(frame)
	}

	var (
		ev domain.Event
		ok bool
	)
	switch msgType {
	case MsgResidenceList:
		ev, ok = decodeResidences(frame[MsgResidenceList])
	case MsgPaymentMethods:
		ev, ok = decodePaymentMethods(frame[MsgPaymentMethods])
	}
	if !ok {
		return domain.Event{}, false
	}

	ev.RequestID = requestID(frame["req_id"])
	return ev, true
}

// inferType recognizes frames without msg_type by the presence of a list payload.
func inferType(frame map[string]any) string {
	for _, key := range []string{MsgResidenceList, MsgPaymentMethods} {
		if _, isList := frame[key].([]any); isList {
			return key
		}
	}
	return ""
}

func decodeResidences(raw any) (domain.Event, bool) {
	list, ok := raw.([]any)
	if !ok {
		return domain.Event{}, false
	}

	var entries []residence
	if err := mapstructure.Decode(list, &entries); err != nil {
		return domain.Event{}, false
	}

	countries := make([]domain.Country, 0, len(entries))
	for _, r := range entries {
		countries = append(countries, domain.Country{Value: r.Value, Label: r.Text})
	}
	return domain.CountriesReceived(countries...), true
}

func decodePaymentMethods(raw any) (domain.Event, bool) {
	list, ok := raw.([]any)
	if !ok {
		return domain.Event{}, false
	}

	rows := make([]domain.PaymentMethod, 0, len(list))
	for _, item := range list {
		row, ok := item.(map[string]any)
		if !ok {
			return domain.Event{}, false
		}
		rows = append(rows, domain.PaymentMethod(row))
	}
	return domain.MethodsReceived(rows...), true
}

func requestID(raw any) int64 {
	switch v := raw.(type) {
	case json.Number:
		id, err := v.Int64()
		if err == nil {
			return id
		}
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return id
		}
	}
	return 0
}
