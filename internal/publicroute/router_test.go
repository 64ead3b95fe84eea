package publicroute

import "testing"

func TestResolveKnownTokens(t *testing.T) {
	cases := []struct {
		token string
		want  Form
	}{
		{"helpdesk_ticket/submit", FormTicket},
		{"helpdesk_ticket-submit", FormTicket},
		{"fleetmanagement/requestavehicle", FormVehicleRequest},
		{"fleetmanagement-requestavehicle", FormVehicleRequest},
		{"procurement/submitrequisition", FormProcurement},
		{"procurement-submitrequisition", FormProcurement},
	}
	for _, tc := range cases {
		form, ok := Resolve(tc.token)
		if !ok {
			t.Fatalf("token %q did not resolve", tc.token)
		}
		if form != tc.want {
			t.Fatalf("token %q resolved to %q, want %q", tc.token, form, tc.want)
		}
	}
}

func TestResolveRejectsNearMisses(t *testing.T) {
	tokens := []string{
		"",
		"helpdesk_ticket",
		"helpdesk_ticket/submit/extra",
		"helpdesk_ticket/Submit",
		"HELPDESK_TICKET/SUBMIT",
		" helpdesk_ticket/submit",
		"fleetmanagement",
		"fleetmanagement/requestavehicle2",
		"procurement",
		"procurement/submit",
		"reports/query",
	}
	for _, token := range tokens {
		if form, ok := Resolve(token); ok {
			t.Fatalf("token %q must not resolve, got %q", token, form)
		}
	}
}
