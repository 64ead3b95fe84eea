package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vdh-servicedesk/backend/internal/gateway"
	"github.com/vdh-servicedesk/backend/internal/models"
	"github.com/vdh-servicedesk/backend/internal/workflow"
)

// Store holds the typed queries for submissions and admin reads. All SQL
// goes through the gateway so the mock backend can stand in for storage.
type Store struct {
	GW gateway.Gateway
}

func New(gw gateway.Gateway) *Store {
	return &Store{GW: gw}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.GW.Ping(ctx)
}

// --- submissions ---

type NewTicket struct {
	Name             string
	Email            string
	Phone            string
	Location         string
	Priority         string
	ShortDescription string
	Description      string
}

func (s *Store) InsertTicket(ctx context.Context, t NewTicket) (int64, error) {
	return s.GW.InsertAndGetID(ctx, `
		INSERT INTO tickets (status, priority, name, email, location, phone, short_description, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING id`,
		models.TicketNew, t.Priority, t.Name, t.Email, t.Location, t.Phone, t.ShortDescription, t.Description)
}

type NewVehicleTrip struct {
	RequesterFirst  string
	RequesterLast   string
	RequesterEmail  string
	RequesterPhone  string
	Destination     string
	DepartureTime   time.Time
	ReturnTime      time.Time
	StartingMileage int64
	Notes           string
}

func (s *Store) InsertVehicleTrip(ctx context.Context, t NewVehicleTrip) (int64, error) {
	return s.GW.InsertAndGetID(ctx, `
		INSERT INTO vehicle_trips (vehicle_id, requester_first, requester_last, requester_email, requester_phone, destination, departure_time, return_time, status, starting_mileage, notes, created_at)
		VALUES (NULL, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		RETURNING id`,
		t.RequesterFirst, t.RequesterLast, t.RequesterEmail, t.RequesterPhone,
		t.Destination, t.DepartureTime, t.ReturnTime, models.RequestRequested,
		t.StartingMileage, t.Notes)
}

type NewProcurementRequest struct {
	RequesterName   string
	RequesterEmail  string
	Location        string
	Department      string
	ItemDescription string
	Quantity        int
	UnitPrice       float64
	Justification   string
}

// RequestNumber builds the public reference for a requisition,
// e.g. PR-20260301-1a2b3c4d.
func RequestNumber(now time.Time) string {
	return fmt.Sprintf("PR-%s-%s", now.Format("20060102"), uuid.NewString()[:8])
}

func (s *Store) InsertProcurementRequest(ctx context.Context, p NewProcurementRequest) (int64, string, error) {
	number := RequestNumber(time.Now().UTC())
	total := p.UnitPrice * float64(p.Quantity)
	id, err := s.GW.InsertAndGetID(ctx, `
		INSERT INTO procurement_requests (request_number, requester_name, requester_email, location, department, item_description, quantity, unit_price, total_amount, justification, status, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		RETURNING id`,
		number, p.RequesterName, p.RequesterEmail, p.Location, p.Department,
		p.ItemDescription, p.Quantity, p.UnitPrice, total, p.Justification,
		models.RequestRequested, "normal")
	return id, number, err
}

func (s *Store) InsertNotification(ctx context.Context, notifType string, referenceID int64, message, createdBy string) error {
	_, err := s.GW.Exec(ctx, `
		INSERT INTO notifications (notification_type, reference_id, message, created_by, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		notifType, referenceID, message, createdBy)
	return err
}

type NewVehicle struct {
	Year           int
	MakeModel      string
	LicensePlate   string
	InitialMileage int64
}

func (s *Store) InsertVehicle(ctx context.Context, v NewVehicle, serviceInterval int64) (int64, error) {
	return s.GW.InsertAndGetID(ctx, `
		INSERT INTO vehicles (year, make_model, license_plate, initial_mileage, current_mileage, last_service_mileage, miles_until_service, status, created_at)
		VALUES ($1, $2, $3, $4, $4, $4, $5, $6, now())
		RETURNING id`,
		v.Year, v.MakeModel, v.LicensePlate, v.InitialMileage, serviceInterval, models.VehicleAvailable)
}

// --- reads ---

const ticketColumns = `id, name, email, phone, location, short_description, description, status, priority, assigned_to, created_at, first_response_at, resolved_at`

func (s *Store) ListTickets(ctx context.Context, status, q string, limit, offset int) ([]models.Ticket, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets`
	var args []any
	var wheres []string
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if q != "" {
		args = append(args, "%"+q+"%")
		wheres = append(wheres, fmt.Sprintf("(short_description ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.GW.Select(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]models.Ticket, 0, len(rows.Values))
	for _, v := range rows.Values {
		out = append(out, scanTicket(v))
	}
	return out, nil
}

func (s *Store) GetTicket(ctx context.Context, id int64) (models.Ticket, error) {
	rows, err := s.GW.Select(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	if err != nil {
		return models.Ticket{}, err
	}
	if len(rows.Values) == 0 {
		return models.Ticket{}, workflow.ErrNotFound
	}
	return scanTicket(rows.Values[0]), nil
}

func scanTicket(v []any) models.Ticket {
	return models.Ticket{
		ID:               asInt64(v[0]),
		Name:             asString(v[1]),
		Email:            asString(v[2]),
		Phone:            asString(v[3]),
		Location:         asString(v[4]),
		ShortDescription: asString(v[5]),
		Description:      asString(v[6]),
		Status:           asString(v[7]),
		Priority:         asString(v[8]),
		AssignedTo:       asStringPtr(v[9]),
		CreatedAt:        asTime(v[10]),
		FirstResponseAt:  asTimePtr(v[11]),
		ResolvedAt:       asTimePtr(v[12]),
	}
}

const tripColumns = `id, vehicle_id, requester_first, requester_last, requester_email, requester_phone, destination, departure_time, return_time, starting_mileage, returning_mileage, miles_used, status, notes, approved_by, approved_at, denial_reason, created_at`

func (s *Store) ListTrips(ctx context.Context, status string) ([]models.VehicleTrip, error) {
	query := `SELECT ` + tripColumns + ` FROM vehicle_trips`
	var args []any
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	query += ` ORDER BY departure_time DESC`

	rows, err := s.GW.Select(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]models.VehicleTrip, 0, len(rows.Values))
	for _, v := range rows.Values {
		out = append(out, scanTrip(v))
	}
	return out, nil
}

func (s *Store) GetTrip(ctx context.Context, id int64) (models.VehicleTrip, error) {
	rows, err := s.GW.Select(ctx, `SELECT `+tripColumns+` FROM vehicle_trips WHERE id = $1`, id)
	if err != nil {
		return models.VehicleTrip{}, err
	}
	if len(rows.Values) == 0 {
		return models.VehicleTrip{}, workflow.ErrNotFound
	}
	return scanTrip(rows.Values[0]), nil
}

func scanTrip(v []any) models.VehicleTrip {
	return models.VehicleTrip{
		ID:               asInt64(v[0]),
		VehicleID:        asInt64Ptr(v[1]),
		RequesterFirst:   asString(v[2]),
		RequesterLast:    asString(v[3]),
		RequesterEmail:   asString(v[4]),
		RequesterPhone:   asString(v[5]),
		Destination:      asString(v[6]),
		DepartureTime:    asTime(v[7]),
		ReturnTime:       asTimePtr(v[8]),
		StartingMileage:  asInt64(v[9]),
		ReturningMileage: asInt64Ptr(v[10]),
		MilesUsed:        asInt64Ptr(v[11]),
		Status:           asString(v[12]),
		Notes:            asString(v[13]),
		ApprovedBy:       asStringPtr(v[14]),
		ApprovedAt:       asTimePtr(v[15]),
		DenialReason:     asStringPtr(v[16]),
		CreatedAt:        asTime(v[17]),
	}
}

// ListVehicles returns the fleet with usage and availability derived per
// row: miles per month since the vehicle entered service, and whether it
// can currently be offered for dispatch.
func (s *Store) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := s.GW.Select(ctx, `
		SELECT id, year, make_model, license_plate, initial_mileage, current_mileage, last_service_mileage, last_service_date, miles_until_service, status, current_trip_id, created_at
		FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := make([]models.Vehicle, 0, len(rows.Values))
	for _, v := range rows.Values {
		vehicle := scanVehicle(v)
		vehicle.MilesPerMonth = milesPerMonth(vehicle, now)
		vehicle.Available = workflow.VehicleAvailable(vehicle)
		out = append(out, vehicle)
	}
	return out, nil
}

func (s *Store) GetVehicle(ctx context.Context, id int64) (models.Vehicle, error) {
	rows, err := s.GW.Select(ctx, `
		SELECT id, year, make_model, license_plate, initial_mileage, current_mileage, last_service_mileage, last_service_date, miles_until_service, status, current_trip_id, created_at
		FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return models.Vehicle{}, err
	}
	if len(rows.Values) == 0 {
		return models.Vehicle{}, workflow.ErrNotFound
	}
	vehicle := scanVehicle(rows.Values[0])
	vehicle.MilesPerMonth = milesPerMonth(vehicle, time.Now().UTC())
	vehicle.Available = workflow.VehicleAvailable(vehicle)
	return vehicle, nil
}

func scanVehicle(v []any) models.Vehicle {
	return models.Vehicle{
		ID:                 asInt64(v[0]),
		Year:               int(asInt64(v[1])),
		MakeModel:          asString(v[2]),
		LicensePlate:       asString(v[3]),
		InitialMileage:     asInt64(v[4]),
		CurrentMileage:     asInt64(v[5]),
		LastServiceMileage: asInt64(v[6]),
		LastServiceDate:    asTimePtr(v[7]),
		MilesUntilService:  asInt64(v[8]),
		Status:             asString(v[9]),
		CurrentTripID:      asInt64Ptr(v[10]),
		CreatedAt:          asTime(v[11]),
	}
}

func milesPerMonth(v models.Vehicle, now time.Time) float64 {
	months := now.Sub(v.CreatedAt).Hours() / (24 * 30)
	driven := float64(v.CurrentMileage - v.InitialMileage)
	if months < 1 {
		return driven
	}
	return driven / months
}

const procurementColumns = `id, request_number, requester_name, requester_email, location, department, item_description, quantity, unit_price, total_amount, justification, status, priority, approved_by, approved_at, denial_reason, created_at`

func (s *Store) ListProcurementRequests(ctx context.Context, status string) ([]models.ProcurementRequest, error) {
	query := `SELECT ` + procurementColumns + ` FROM procurement_requests`
	var args []any
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.GW.Select(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]models.ProcurementRequest, 0, len(rows.Values))
	for _, v := range rows.Values {
		out = append(out, scanProcurement(v))
	}
	return out, nil
}

func (s *Store) GetProcurementRequest(ctx context.Context, id int64) (models.ProcurementRequest, error) {
	rows, err := s.GW.Select(ctx, `SELECT `+procurementColumns+` FROM procurement_requests WHERE id = $1`, id)
	if err != nil {
		return models.ProcurementRequest{}, err
	}
	if len(rows.Values) == 0 {
		return models.ProcurementRequest{}, workflow.ErrNotFound
	}
	return scanProcurement(rows.Values[0]), nil
}

func scanProcurement(v []any) models.ProcurementRequest {
	return models.ProcurementRequest{
		ID:              asInt64(v[0]),
		RequestNumber:   asString(v[1]),
		RequesterName:   asString(v[2]),
		RequesterEmail:  asString(v[3]),
		Location:        asString(v[4]),
		Department:      asString(v[5]),
		ItemDescription: asString(v[6]),
		Quantity:        int(asInt64(v[7])),
		UnitPrice:       asFloat64(v[8]),
		TotalAmount:     asFloat64(v[9]),
		Justification:   asString(v[10]),
		Status:          asString(v[11]),
		Priority:        asString(v[12]),
		ApprovedBy:      asStringPtr(v[13]),
		ApprovedAt:      asTimePtr(v[14]),
		DenialReason:    asStringPtr(v[15]),
		CreatedAt:       asTime(v[16]),
	}
}

func (s *Store) ListNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.GW.Select(ctx, `
		SELECT id, notification_type, reference_id, message, created_by, created_at
		FROM notifications ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.Notification, 0, len(rows.Values))
	for _, v := range rows.Values {
		out = append(out, models.Notification{
			ID:          asInt64(v[0]),
			Type:        asString(v[1]),
			ReferenceID: asInt64(v[2]),
			Message:     asString(v[3]),
			CreatedBy:   asString(v[4]),
			CreatedAt:   asTime(v[5]),
		})
	}
	return out, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.GW.Select(ctx, `SELECT id, name, email, role, created_at FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(rows.Values))
	for _, v := range rows.Values {
		out = append(out, models.User{
			ID:        asInt64(v[0]),
			Name:      asString(v[1]),
			Email:     asString(v[2]),
			Role:      asString(v[3]),
			CreatedAt: asTime(v[4]),
		})
	}
	return out, nil
}
