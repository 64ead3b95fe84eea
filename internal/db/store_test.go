package db

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/vdh-servicedesk/backend/internal/gateway"
)

func TestRequestNumberFormat(t *testing.T) {
	n := RequestNumber(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	matched, err := regexp.MatchString(`^PR-20260301-[0-9a-f]{8}$`, n)
	if err != nil {
		t.Fatalf("regexp: %v", err)
	}
	if !matched {
		t.Fatalf("unexpected request number format: %q", n)
	}
}

func TestInsertTicketMockReturnsID(t *testing.T) {
	s := New(gateway.NewMock())
	id, err := s.InsertTicket(context.Background(), NewTicket{
		Name:             "Jane Doe",
		Email:            "jane@x.org",
		Location:         "Petersburg",
		Priority:         "Medium",
		ShortDescription: "printer jam",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected fabricated id")
	}
}

func TestMilesPerMonth(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	v := scanVehicle([]any{
		int64(1), int64(2022), "Ford Escape", "VA-1234",
		int64(10000), int64(13000), int64(12000), nil,
		int64(3000), "Available", nil, now.AddDate(0, -3, 0),
	})
	perMonth := milesPerMonth(v, now)
	if perMonth < 950 || perMonth > 1050 {
		t.Fatalf("expected roughly 1000 miles/month, got %f", perMonth)
	}

	// A vehicle added this month reports raw miles driven.
	v.CreatedAt = now.AddDate(0, 0, -10)
	if got := milesPerMonth(v, now); got != 3000 {
		t.Fatalf("expected 3000 for new vehicle, got %f", got)
	}
}
