package attendee

import (
	"context"
	"database/sql"
	"fmt"

	"edge-tickets/internal/logger"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("edge-tickets/attendee")

type Repository interface {
	FindByEmail(ctx context.Context, email string) ([]*Attendee, error)
	GetProductsByAttendeeIDs(ctx context.Context, attendeeIDs []int64) (map[int64][]*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// FindByEmail returns every attendee row whose email matches case-insensitively,
// together with the popup city of the owning application. Both sides are
// folded by Postgres so the comparison uses one set of case rules.
func (r *repository) FindByEmail(ctx context.Context, email string) ([]*Attendee, error) {
	ctx, span := tracer.Start(ctx, "attendee.repository.FindByEmail")
	defer span.End()

	log := logger.FromCtx(ctx)

	query := `
		SELECT a.id, a.name, a.email, a.category, p.id, p.name
		FROM attendees a
		JOIN applications ap ON ap.id = a.application_id
		JOIN popups p ON p.id = ap.popup_city_id
		WHERE LOWER(a.email) = LOWER($1)
		ORDER BY a.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		log.Error("DB query failed FindByEmail", zap.Error(err))
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query attendees: %w", err)
	}
	defer rows.Close()

	attendees := []*Attendee{}
	for rows.Next() {
		var a Attendee
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Category, &a.PopupID, &a.PopupCity); err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, &a)
	}

	if err := rows.Err(); err != nil {
		log.Error("Rows iteration failed", zap.Error(err))
		return nil, fmt.Errorf("iterate attendees: %w", err)
	}

	span.SetAttributes(attribute.Int("attendee.count", len(attendees)))
	return attendees, nil
}

// GetProductsByAttendeeIDs loads the products of all given attendees in one
// query, keyed by attendee id and ordered by start date.
func (r *repository) GetProductsByAttendeeIDs(ctx context.Context, attendeeIDs []int64) (map[int64][]*Product, error) {
	result := make(map[int64][]*Product, len(attendeeIDs))
	if len(attendeeIDs) == 0 {
		return result, nil
	}

	ctx, span := tracer.Start(ctx, "attendee.repository.GetProductsByAttendeeIDs")
	defer span.End()

	log := logger.FromCtx(ctx).With(zap.Int("attendee_count", len(attendeeIDs)))

	query := `
		SELECT ap.attendee_id, pr.name, pr.category, pr.start_date, pr.end_date
		FROM attendee_products ap
		JOIN products pr ON pr.id = ap.product_id
		WHERE ap.attendee_id = ANY($1)
		ORDER BY ap.attendee_id ASC, pr.start_date ASC NULLS LAST, pr.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(attendeeIDs))
	if err != nil {
		log.Error("DB query failed GetProductsByAttendeeIDs", zap.Error(err))
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			attendeeID int64
			p          Product
			start, end sql.NullTime
		)
		if err := rows.Scan(&attendeeID, &p.Name, &p.Category, &start, &end); err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if start.Valid {
			p.StartDate = NewLocalTime(start.Time)
		}
		if end.Valid {
			p.EndDate = NewLocalTime(end.Time)
		}
		result[attendeeID] = append(result[attendeeID], &p)
	}

	if err := rows.Err(); err != nil {
		log.Error("Rows iteration failed", zap.Error(err))
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return result, nil
}
