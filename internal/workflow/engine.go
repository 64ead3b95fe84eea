// Package workflow enforces the legal status transitions for tickets,
// vehicle trips, and procurement requests, and applies each transition's
// side effects atomically. Every transition is a conditional UPDATE guarded
// on the source status; a zero affected-row count means another actor got
// there first.
package workflow

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vdh-servicedesk/backend/internal/gateway"
	"github.com/vdh-servicedesk/backend/internal/models"
)

type Engine struct {
	GW              gateway.Gateway
	ServiceInterval int64
	Logger          zerolog.Logger
}

func NewEngine(gw gateway.Gateway, serviceInterval int64, logger zerolog.Logger) *Engine {
	if serviceInterval <= 0 {
		serviceInterval = 4000
	}
	return &Engine{GW: gw, ServiceInterval: serviceInterval, Logger: logger}
}

// MarkFirstViewed stamps first_response_at the first time an admin opens a
// ticket. Already-stamped tickets are left untouched; that is a no-op, not
// an error. Databases without the workflow migration skip the stamp.
func (e *Engine) MarkFirstViewed(ctx context.Context, ticketID int64) error {
	affected, err := e.GW.Exec(ctx,
		`UPDATE tickets SET first_response_at = now() WHERE id = $1 AND first_response_at IS NULL`,
		ticketID)
	if err != nil {
		if gateway.IsUndefinedColumn(err) {
			e.Logger.Warn().Int64("ticket_id", ticketID).Msg("first_response_at column missing, skipping first-view stamp")
			return nil
		}
		return err
	}
	if affected == 0 {
		e.Logger.Debug().Int64("ticket_id", ticketID).Msg("first response already recorded")
	}
	return nil
}

// ResolveTicket moves an open ticket to Resolved and stamps resolved_at.
func (e *Engine) ResolveTicket(ctx context.Context, ticketID int64) error {
	affected, err := e.GW.Exec(ctx,
		`UPDATE tickets SET status = $2, resolved_at = now() WHERE id = $1 AND status IN ($3, $4)`,
		ticketID, models.TicketResolved, models.TicketNew, models.TicketInProgress)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidStateTransition
	}
	return nil
}

// CloseTicket retires a resolved ticket. Tickets are never deleted.
func (e *Engine) CloseTicket(ctx context.Context, ticketID int64) error {
	affected, err := e.GW.Exec(ctx,
		`UPDATE tickets SET status = $2 WHERE id = $1 AND status = $3`,
		ticketID, models.TicketClosed, models.TicketResolved)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidStateTransition
	}
	return nil
}

// ApproveProcurement transitions Requested -> Approved and records the
// approver. Works without the workflow columns by dropping the stamps.
func (e *Engine) ApproveProcurement(ctx context.Context, requestID int64, approver string) error {
	affected, err := e.GW.Exec(ctx,
		`UPDATE procurement_requests SET status = $2, approved_by = $3, approved_at = now() WHERE id = $1 AND status = $4`,
		requestID, models.RequestApproved, approver, models.RequestRequested)
	if gateway.IsUndefinedColumn(err) {
		e.Logger.Warn().Int64("request_id", requestID).Msg("workflow columns missing, approving without approver stamp")
		affected, err = e.GW.Exec(ctx,
			`UPDATE procurement_requests SET status = $2 WHERE id = $1 AND status = $3`,
			requestID, models.RequestApproved, models.RequestRequested)
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidStateTransition
	}
	return nil
}

// DenyProcurement transitions Requested -> Denied with a reason.
// approved_at stays null on denial.
func (e *Engine) DenyProcurement(ctx context.Context, requestID int64, approver, reason string) error {
	affected, err := e.GW.Exec(ctx,
		`UPDATE procurement_requests SET status = $2, approved_by = $3, denial_reason = $4 WHERE id = $1 AND status = $5`,
		requestID, models.RequestDenied, approver, reason, models.RequestRequested)
	if gateway.IsUndefinedColumn(err) {
		e.Logger.Warn().Int64("request_id", requestID).Msg("workflow columns missing, denying without reason stamp")
		affected, err = e.GW.Exec(ctx,
			`UPDATE procurement_requests SET status = $2 WHERE id = $1 AND status = $3`,
			requestID, models.RequestDenied, models.RequestRequested)
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidStateTransition
	}
	return nil
}

// ApproveTrip approves a vehicle request and dispatches the assigned
// vehicle. Trip and vehicle change together in one transaction so a vehicle
// is never dispatched without an active trip or vice versa.
func (e *Engine) ApproveTrip(ctx context.Context, tripID, vehicleID int64, approver string) error {
	return e.GW.WithTx(ctx, func(r gateway.Runner) error {
		affected, err := r.Exec(ctx,
			`UPDATE vehicle_trips SET status = $2, vehicle_id = $3, approved_by = $4, approved_at = now() WHERE id = $1 AND status = $5`,
			tripID, models.RequestApproved, vehicleID, approver, models.RequestRequested)
		if gateway.IsUndefinedColumn(err) {
			e.Logger.Warn().Int64("trip_id", tripID).Msg("workflow columns missing, approving without approver stamp")
			affected, err = r.Exec(ctx,
				`UPDATE vehicle_trips SET status = $2, vehicle_id = $3 WHERE id = $1 AND status = $4`,
				tripID, models.RequestApproved, vehicleID, models.RequestRequested)
		}
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidStateTransition
		}

		affected, err = r.Exec(ctx,
			`UPDATE vehicles SET status = $2, current_trip_id = $3 WHERE id = $1 AND current_trip_id IS NULL`,
			vehicleID, models.VehicleDispatched, tripID)
		if err != nil {
			return err
		}
		if affected == 0 {
			// Vehicle already carries an active trip; abort the approval.
			return ErrInvalidStateTransition
		}
		return nil
	})
}

// DenyTrip transitions Requested -> Denied with a reason. approved_at stays
// null on denial.
func (e *Engine) DenyTrip(ctx context.Context, tripID int64, approver, reason string) error {
	affected, err := e.GW.Exec(ctx,
		`UPDATE vehicle_trips SET status = $2, approved_by = $3, denial_reason = $4 WHERE id = $1 AND status = $5`,
		tripID, models.RequestDenied, approver, reason, models.RequestRequested)
	if gateway.IsUndefinedColumn(err) {
		e.Logger.Warn().Int64("trip_id", tripID).Msg("workflow columns missing, denying without reason stamp")
		affected, err = e.GW.Exec(ctx,
			`UPDATE vehicle_trips SET status = $2 WHERE id = $1 AND status = $3`,
			tripID, models.RequestDenied, models.RequestRequested)
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidStateTransition
	}
	return nil
}

// CompleteTrip records the return of a dispatched vehicle: trip gets its
// mileage and Returned status, the vehicle gets its odometer advanced, its
// service countdown recomputed, and its active-trip slot cleared. All in
// one transaction.
func (e *Engine) CompleteTrip(ctx context.Context, tripID, returningMileage int64, returnTime time.Time) error {
	return e.GW.WithTx(ctx, func(r gateway.Runner) error {
		rows, err := r.Select(ctx,
			`SELECT vehicle_id, starting_mileage, status FROM vehicle_trips WHERE id = $1`,
			tripID)
		if err != nil {
			return err
		}
		if len(rows.Values) == 0 {
			return ErrNotFound
		}
		vehicleID, ok := asInt64(rows.Values[0][0])
		if !ok {
			return &ValidationError{Field: "vehicle_id", Msg: "trip has no vehicle assigned"}
		}
		startingMileage, _ := asInt64(rows.Values[0][1])
		status, _ := rows.Values[0][2].(string)

		if status != models.RequestApproved {
			return ErrInvalidStateTransition
		}
		milesUsed, err := MilesUsed(startingMileage, returningMileage)
		if err != nil {
			return err
		}

		affected, err := r.Exec(ctx,
			`UPDATE vehicle_trips SET status = $2, returning_mileage = $3, return_time = $4, miles_used = $5 WHERE id = $1 AND status = $6`,
			tripID, models.TripReturned, returningMileage, returnTime, milesUsed, models.RequestApproved)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidStateTransition
		}

		_, err = r.Exec(ctx,
			`UPDATE vehicles SET current_mileage = $2, miles_until_service = $3 - ($2 - last_service_mileage), current_trip_id = NULL, status = $4 WHERE id = $1`,
			vehicleID, returningMileage, e.ServiceInterval, models.VehicleAvailable)
		return err
	})
}

// ResetService files a service log entry and resets the vehicle's service
// countdown. No source-state precondition, but the log insert and the
// counter reset commit together.
func (e *Engine) ResetService(ctx context.Context, vehicleID int64, serviceDate time.Time, cost float64, workPerformed string) (int64, error) {
	var logID int64
	err := e.GW.WithTx(ctx, func(r gateway.Runner) error {
		var err error
		logID, err = r.InsertAndGetID(ctx,
			`INSERT INTO service_logs (vehicle_id, date_of_service, cost, work_performed, created_at) VALUES ($1, $2, $3, $4, now()) RETURNING id`,
			vehicleID, serviceDate, cost, workPerformed)
		if err != nil {
			return err
		}
		affected, err := r.Exec(ctx,
			`UPDATE vehicles SET last_service_mileage = current_mileage, last_service_date = $2, miles_until_service = $3 WHERE id = $1`,
			vehicleID, serviceDate, e.ServiceInterval)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return logID, err
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
