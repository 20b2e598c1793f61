package clinic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository keeps each record as a JSONB document keyed by its ID string,
// so the same records and queries work without a document database.
type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS bookings (
	seq bigserial,
	id  text PRIMARY KEY,
	doc jsonb NOT NULL
);
CREATE INDEX IF NOT EXISTS bookings_date_idx ON bookings ((doc->>'date'));
CREATE INDEX IF NOT EXISTS bookings_start_idx ON bookings ((doc->>'start'));
CREATE INDEX IF NOT EXISTS bookings_doctor_idx ON bookings ((doc->>'doctor_id'));

CREATE TABLE IF NOT EXISTS doctors (
	seq bigserial,
	id  text PRIMARY KEY,
	doc jsonb NOT NULL
);

CREATE TABLE IF NOT EXISTS patients (
	seq bigserial,
	id  text PRIMARY KEY,
	doc jsonb NOT NULL
);
CREATE INDEX IF NOT EXISTS patients_phone_idx ON patients ((doc->>'phone_number'));
`

func (r *PgRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Helpers

func queryDocs[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args ...any) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	raw, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for _, b := range raw {
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func queryDoc[T any](ctx context.Context, pool *pgxpool.Pool, notFound error, sql string, args ...any) (*T, error) {
	var b []byte
	if err := pool.QueryRow(ctx, sql, args...).Scan(&b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}
		return nil, err
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &v, nil
}

func insertStatement(table string) string {
	return fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)", table)
}

func encodeDoc(doc any) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}

// likeContains escapes LIKE wildcards so fragment matches literally.
func likeContains(fragment string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(fragment) + "%"
}

func doctorWhere(f DoctorFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("doc->>'status' = $%d", len(args)))
	}
	if f.Weekday != "" {
		args = append(args, f.Weekday)
		conds = append(conds, fmt.Sprintf("doc->'availability'->'days' ? $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Bookings

func (r *PgRepository) ListBookings(ctx context.Context) ([]Booking, error) {
	out, err := queryDocs[Booking](ctx, r.pool, `SELECT doc FROM bookings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func (r *PgRepository) FindBookingsByDate(ctx context.Context, displayDate string) ([]Booking, error) {
	out, err := queryDocs[Booking](ctx, r.pool, `
		SELECT doc FROM bookings
		WHERE doc->>'date' = $1
		ORDER BY seq
	`, displayDate)
	if err != nil {
		return nil, fmt.Errorf("find bookings by date: %w", err)
	}
	return out, nil
}

func (r *PgRepository) FindBookingsStartingBetween(ctx context.Context, from, to string) ([]Booking, error) {
	out, err := queryDocs[Booking](ctx, r.pool, `
		SELECT doc FROM bookings
		WHERE doc->>'start' >= $1
		  AND doc->>'start' <= $2
		ORDER BY seq
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("find bookings by start: %w", err)
	}
	return out, nil
}

func (r *PgRepository) FindBookingsByDoctor(ctx context.Context, doctorID string) ([]Booking, error) {
	out, err := queryDocs[Booking](ctx, r.pool, `
		SELECT doc FROM bookings
		WHERE doc->>'doctor_id' = $1
		ORDER BY seq
	`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("find bookings by doctor: %w", err)
	}
	return out, nil
}

func (r *PgRepository) FindDoctorBookingsByDate(ctx context.Context, doctorID, displayDate string) ([]Booking, error) {
	out, err := queryDocs[Booking](ctx, r.pool, `
		SELECT doc FROM bookings
		WHERE doc->>'doctor_id' = $1
		  AND doc->>'date' = $2
		ORDER BY doc->>'time' NULLS FIRST, seq
	`, doctorID, displayDate)
	if err != nil {
		return nil, fmt.Errorf("find doctor bookings by date: %w", err)
	}
	return out, nil
}

func (r *PgRepository) CountBookingsByDate(ctx context.Context, displayDate string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE doc->>'date' = $1`, displayDate).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (r *PgRepository) InsertBookings(ctx context.Context, bookings []Booking) error {
	batch := &pgx.Batch{}
	for i := range bookings {
		doc, err := encodeDoc(bookings[i])
		if err != nil {
			return err
		}
		batch.Queue(insertStatement(bookingsCollection), bookings[i].ID.String(), doc)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert bookings: %w", err)
	}
	return nil
}

// Doctors

func (r *PgRepository) ListDoctors(ctx context.Context, filter DoctorFilter) ([]Doctor, error) {
	where, args := doctorWhere(filter)
	out, err := queryDocs[Doctor](ctx, r.pool, `SELECT doc FROM doctors`+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return out, nil
}

func (r *PgRepository) CountDoctors(ctx context.Context, filter DoctorFilter) (int64, error) {
	where, args := doctorWhere(filter)
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM doctors`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count doctors: %w", err)
	}
	return n, nil
}

func (r *PgRepository) SearchDoctors(ctx context.Context, fragment string) ([]Doctor, error) {
	out, err := queryDocs[Doctor](ctx, r.pool, `
		SELECT doc FROM doctors
		WHERE doc->>'name' ILIKE $1
		ORDER BY seq
	`, likeContains(fragment))
	if err != nil {
		return nil, fmt.Errorf("search doctors: %w", err)
	}
	return out, nil
}

func (r *PgRepository) GetDoctor(ctx context.Context, id RecordID) (*Doctor, error) {
	d, err := queryDoc[Doctor](ctx, r.pool, ErrDoctorNotFound, `SELECT doc FROM doctors WHERE id = $1`, id.String())
	if err != nil && !errors.Is(err, ErrDoctorNotFound) {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	return d, err
}

func (r *PgRepository) InsertDoctor(ctx context.Context, d *Doctor) error {
	doc, err := encodeDoc(d)
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, insertStatement(doctorsCollection), d.ID.String(), doc); err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

// Patients

func (r *PgRepository) ListPatients(ctx context.Context) ([]Patient, error) {
	out, err := queryDocs[Patient](ctx, r.pool, `SELECT doc FROM patients ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}

func (r *PgRepository) SearchPatients(ctx context.Context, fragment string) ([]Patient, error) {
	out, err := queryDocs[Patient](ctx, r.pool, `
		SELECT doc FROM patients
		WHERE doc->>'phone_number' ILIKE $1
		   OR doc->>'serial_code' ILIKE $1
		ORDER BY seq
	`, likeContains(fragment))
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return out, nil
}

func (r *PgRepository) GetPatientByPhone(ctx context.Context, phone string) (*Patient, error) {
	p, err := queryDoc[Patient](ctx, r.pool, ErrPatientNotFound, `
		SELECT doc FROM patients
		WHERE doc->>'phone_number' = $1
		ORDER BY seq
		LIMIT 1
	`, phone)
	if err != nil && !errors.Is(err, ErrPatientNotFound) {
		return nil, fmt.Errorf("get patient by phone: %w", err)
	}
	return p, err
}

func (r *PgRepository) GetPatient(ctx context.Context, id RecordID) (*Patient, error) {
	p, err := queryDoc[Patient](ctx, r.pool, ErrPatientNotFound, `SELECT doc FROM patients WHERE id = $1`, id.String())
	if err != nil && !errors.Is(err, ErrPatientNotFound) {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, err
}

func (r *PgRepository) InsertPatients(ctx context.Context, patients []Patient) error {
	batch := &pgx.Batch{}
	for i := range patients {
		doc, err := encodeDoc(patients[i])
		if err != nil {
			return err
		}
		batch.Queue(insertStatement(patientsCollection), patients[i].ID.String(), doc)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert patients: %w", err)
	}
	return nil
}
