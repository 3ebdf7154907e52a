/*
Package protocol encodes workflow requests into the upstream JSON API and classifies
inbound frames into workflow events.

Requests follow the Deriv websocket API:

	{"residence_list": 1, "req_id": 1}
	{"payment_methods": "in", "req_id": 2}

Responses are recognized by their "msg_type". Frames carrying an "error" object,
frames of any other type and malformed frames are reported as not recognized; the
caller drops them without changing the workflow.
*/
package protocol
