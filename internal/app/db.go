package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepo persists the history of confirmed bookings. The calendar stays
// the source of truth for availability; these rows only back the customer's
// booking list.
type BookingRepo struct {
	DB *pgxpool.Pool
}

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{DB: pool}
}

func (r *BookingRepo) Insert(ctx context.Context, rec *BookingRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()

	q := `INSERT INTO bookings
          (id, user_id, user_name, email, phone_number, bay, date, start_time,
           duration_hours, number_of_people, login_method, calendar_event_id, created_at)
          VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err := r.DB.Exec(ctx, q,
		rec.ID, rec.UserID, rec.UserName, rec.Email, rec.PhoneNumber,
		rec.Bay, rec.Date, rec.StartTime, rec.Duration, rec.NumberOfPeople,
		rec.LoginMethod, rec.CalendarEventID, rec.CreatedAt)
	return err
}

func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]BookingRecord, error) {
	q := `SELECT id, user_id, user_name, email, phone_number, bay, date, start_time,
                 duration_hours, number_of_people, login_method, calendar_event_id, created_at
          FROM bookings
          WHERE user_id=$1
          ORDER BY date DESC, start_time DESC`
	rows, err := r.DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookingRecord
	for rows.Next() {
		var b BookingRecord
		if err := rows.Scan(&b.ID, &b.UserID, &b.UserName, &b.Email, &b.PhoneNumber,
			&b.Bay, &b.Date, &b.StartTime, &b.Duration, &b.NumberOfPeople,
			&b.LoginMethod, &b.CalendarEventID, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
