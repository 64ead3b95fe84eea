package models

import "time"

// Ticket statuses.
const (
	TicketNew        = "New"
	TicketInProgress = "InProgress"
	TicketResolved   = "Resolved"
	TicketClosed     = "Closed"
)

// Trip and procurement request statuses.
const (
	RequestRequested = "Requested"
	RequestApproved  = "Approved"
	RequestDenied    = "Denied"
	TripReturned     = "Returned"
)

// Vehicle statuses.
const (
	VehicleAvailable    = "Available"
	VehicleDispatched   = "Dispatched"
	VehicleInUse        = "In Use"
	VehicleMaintenance  = "Maintenance"
	VehicleRequested    = "Requested"
	VehicleOutOfService = "Out of Service"
)

type Ticket struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone,omitempty"`
	Location         string     `json:"location,omitempty"`
	ShortDescription string     `json:"short_description"`
	Description      string     `json:"description,omitempty"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	AssignedTo       *string    `json:"assigned_to"`
	CreatedAt        time.Time  `json:"created_at"`
	FirstResponseAt  *time.Time `json:"first_response_at"`
	ResolvedAt       *time.Time `json:"resolved_at"`
}

type VehicleTrip struct {
	ID               int64      `json:"id"`
	VehicleID        *int64     `json:"vehicle_id"`
	RequesterFirst   string     `json:"requester_first"`
	RequesterLast    string     `json:"requester_last"`
	RequesterEmail   string     `json:"requester_email"`
	RequesterPhone   string     `json:"requester_phone,omitempty"`
	Destination      string     `json:"destination"`
	DepartureTime    time.Time  `json:"departure_time"`
	ReturnTime       *time.Time `json:"return_time"`
	StartingMileage  int64      `json:"starting_mileage"`
	ReturningMileage *int64     `json:"returning_mileage"`
	MilesUsed        *int64     `json:"miles_used"`
	Status           string     `json:"status"`
	Notes            string     `json:"notes,omitempty"`
	ApprovedBy       *string    `json:"approved_by"`
	ApprovedAt       *time.Time `json:"approved_at"`
	DenialReason     *string    `json:"denial_reason"`
	CreatedAt        time.Time  `json:"created_at"`
}

type Vehicle struct {
	ID                 int64      `json:"id"`
	Year               int        `json:"year"`
	MakeModel          string     `json:"make_model"`
	LicensePlate       string     `json:"license_plate,omitempty"`
	InitialMileage     int64      `json:"initial_mileage"`
	CurrentMileage     int64      `json:"current_mileage"`
	LastServiceMileage int64      `json:"last_service_mileage"`
	LastServiceDate    *time.Time `json:"last_service_date"`
	MilesUntilService  int64      `json:"miles_until_service"`
	Status             string     `json:"status"`
	CurrentTripID      *int64     `json:"current_trip_id"`
	CreatedAt          time.Time  `json:"created_at"`

	// Derived on read, not persisted.
	MilesPerMonth float64 `json:"miles_per_month"`
	Available     bool    `json:"available"`
}

type ProcurementRequest struct {
	ID              int64      `json:"id"`
	RequestNumber   string     `json:"request_number"`
	RequesterName   string     `json:"requester_name"`
	RequesterEmail  string     `json:"requester_email"`
	Location        string     `json:"location"`
	Department      string     `json:"department"`
	ItemDescription string     `json:"item_description"`
	Quantity        int        `json:"quantity"`
	UnitPrice       float64    `json:"unit_price"`
	TotalAmount     float64    `json:"total_amount"`
	Justification   string     `json:"justification"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	ApprovedBy      *string    `json:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	DenialReason    *string    `json:"denial_reason"`
	CreatedAt       time.Time  `json:"created_at"`
}

type ServiceLog struct {
	ID            int64     `json:"id"`
	VehicleID     int64     `json:"vehicle_id"`
	DateOfService time.Time `json:"date_of_service"`
	Cost          float64   `json:"cost"`
	WorkPerformed string    `json:"work_performed,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Notification struct {
	ID          int64     `json:"id"`
	Type        string    `json:"notification_type"`
	ReferenceID int64     `json:"reference_id"`
	Message     string    `json:"message"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
