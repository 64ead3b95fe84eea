// Package publicroute maps an incoming page token to one of the three
// public submission forms. Matching is exact and case-sensitive; each form
// answers to a slash-separated and a dash-separated spelling of the same
// token, and nothing else. Unmatched tokens fall through to the normal
// admin surface.
package publicroute

type Form string

const (
	FormTicket         Form = "ticket"
	FormVehicleRequest Form = "vehicle_request"
	FormProcurement    Form = "procurement"
)

var routes = map[string]Form{
	"helpdesk_ticket/submit":           FormTicket,
	"helpdesk_ticket-submit":           FormTicket,
	"fleetmanagement/requestavehicle":  FormVehicleRequest,
	"fleetmanagement-requestavehicle":  FormVehicleRequest,
	"procurement/submitrequisition":    FormProcurement,
	"procurement-submitrequisition":    FormProcurement,
}

// Resolve returns the form a token selects. No prefix or partial matching:
// a token either names a form exactly or falls through.
func Resolve(token string) (Form, bool) {
	form, ok := routes[token]
	return form, ok
}
