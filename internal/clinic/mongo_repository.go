package clinic

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	bookingsCollection = "bookings"
	doctorsCollection  = "doctors"
	patientsCollection = "patients"
)

type MongoRepository struct {
	db       *mongo.Database
	bookings *mongo.Collection
	doctors  *mongo.Collection
	patients *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		db:       db,
		bookings: db.Collection(bookingsCollection),
		doctors:  db.Collection(doctorsCollection),
		patients: db.Collection(patientsCollection),
	}
}

// EnsureIndexes creates the secondary indexes the day and lookup queries
// rely on. Existing indexes are left alone.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	asc := func(field string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
	}

	if _, err := r.bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		asc("date"),
		asc("start"),
		asc("doctor_id"),
	}); err != nil {
		return fmt.Errorf("create booking indexes: %w", err)
	}
	if _, err := r.patients.Indexes().CreateOne(ctx, asc("phone_number")); err != nil {
		return fmt.Errorf("create patient indexes: %w", err)
	}
	if _, err := r.doctors.Indexes().CreateOne(ctx, asc("status")); err != nil {
		return fmt.Errorf("create doctor indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, readpref.Primary())
}

// Helpers

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}

	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, notFound error) (*T, error) {
	var v T
	err := coll.FindOne(ctx, filter).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find one %s: %w", coll.Name(), err)
	}
	return &v, nil
}

func containsFold(fragment string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(fragment), Options: "i"}
}

func idFilter(id RecordID) bson.M {
	return bson.M{"_id": bson.M{"$in": id.Candidates()}}
}

func doctorFilter(f DoctorFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Weekday != "" {
		filter["availability.days"] = f.Weekday
	}
	return filter
}

// Bookings

func (r *MongoRepository) ListBookings(ctx context.Context) ([]Booking, error) {
	return findAll[Booking](ctx, r.bookings, bson.M{})
}

func (r *MongoRepository) FindBookingsByDate(ctx context.Context, displayDate string) ([]Booking, error) {
	return findAll[Booking](ctx, r.bookings, bson.M{"date": displayDate})
}

func (r *MongoRepository) FindBookingsStartingBetween(ctx context.Context, from, to string) ([]Booking, error) {
	return findAll[Booking](ctx, r.bookings, bson.M{
		"start": bson.M{"$gte": from, "$lte": to},
	})
}

func (r *MongoRepository) FindBookingsByDoctor(ctx context.Context, doctorID string) ([]Booking, error) {
	return findAll[Booking](ctx, r.bookings, bson.M{"doctor_id": doctorID})
}

func (r *MongoRepository) FindDoctorBookingsByDate(ctx context.Context, doctorID, displayDate string) ([]Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})
	return findAll[Booking](ctx, r.bookings, bson.M{
		"doctor_id": doctorID,
		"date":      displayDate,
	}, opts)
}

func (r *MongoRepository) CountBookingsByDate(ctx context.Context, displayDate string) (int64, error) {
	n, err := r.bookings.CountDocuments(ctx, bson.M{"date": displayDate})
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (r *MongoRepository) InsertBookings(ctx context.Context, bookings []Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	docs := make([]any, len(bookings))
	for i := range bookings {
		docs[i] = bookings[i]
	}
	if _, err := r.bookings.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert bookings: %w", err)
	}
	return nil
}

// Doctors

func (r *MongoRepository) ListDoctors(ctx context.Context, filter DoctorFilter) ([]Doctor, error) {
	return findAll[Doctor](ctx, r.doctors, doctorFilter(filter))
}

func (r *MongoRepository) CountDoctors(ctx context.Context, filter DoctorFilter) (int64, error) {
	n, err := r.doctors.CountDocuments(ctx, doctorFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count doctors: %w", err)
	}
	return n, nil
}

func (r *MongoRepository) SearchDoctors(ctx context.Context, fragment string) ([]Doctor, error) {
	return findAll[Doctor](ctx, r.doctors, bson.M{"name": containsFold(fragment)})
}

func (r *MongoRepository) GetDoctor(ctx context.Context, id RecordID) (*Doctor, error) {
	return findOne[Doctor](ctx, r.doctors, idFilter(id), ErrDoctorNotFound)
}

func (r *MongoRepository) InsertDoctor(ctx context.Context, d *Doctor) error {
	if _, err := r.doctors.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

// Patients

func (r *MongoRepository) ListPatients(ctx context.Context) ([]Patient, error) {
	return findAll[Patient](ctx, r.patients, bson.M{})
}

func (r *MongoRepository) SearchPatients(ctx context.Context, fragment string) ([]Patient, error) {
	re := containsFold(fragment)
	return findAll[Patient](ctx, r.patients, bson.M{
		"$or": []bson.M{
			{"phone_number": re},
			{"serial_code": re},
		},
	})
}

func (r *MongoRepository) GetPatientByPhone(ctx context.Context, phone string) (*Patient, error) {
	return findOne[Patient](ctx, r.patients, bson.M{"phone_number": phone}, ErrPatientNotFound)
}

func (r *MongoRepository) GetPatient(ctx context.Context, id RecordID) (*Patient, error) {
	return findOne[Patient](ctx, r.patients, idFilter(id), ErrPatientNotFound)
}

func (r *MongoRepository) InsertPatients(ctx context.Context, patients []Patient) error {
	if len(patients) == 0 {
		return nil
	}
	docs := make([]any, len(patients))
	for i := range patients {
		docs[i] = patients[i]
	}
	if _, err := r.patients.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert patients: %w", err)
	}
	return nil
}
