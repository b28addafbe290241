package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/invenflow/workforce-api/internal/core/domain"
	"github.com/invenflow/workforce-api/internal/core/ports"
)

const attendanceCollection = "attendance_records"

// AttendanceRepository implements ports.AttendanceRepository on MongoDB. The
// uniqueness invariants are enforced by indexes (see EnsureIndexes), so
// check-then-write races across processes surface as duplicate-key errors
// rather than corrupt state.
type AttendanceRepository struct {
	coll *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{coll: db.Collection(attendanceCollection)}
}

type mongoAttendance struct {
	ID           string     `bson:"_id"`
	EmployeeID   string     `bson:"employee_id"`
	WorkDate     string     `bson:"work_date"`
	ClockInTime  *time.Time `bson:"clock_in_time,omitempty"`
	ClockOutTime *time.Time `bson:"clock_out_time,omitempty"`
	Status       string     `bson:"status"`
	Notes        string     `bson:"notes,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

func toMongoAttendance(r *domain.AttendanceRecord) mongoAttendance {
	return mongoAttendance{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		WorkDate:     r.WorkDate,
		ClockInTime:  r.ClockInTime,
		ClockOutTime: r.ClockOutTime,
		Status:       string(r.Status),
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (ma mongoAttendance) toDomain() *domain.AttendanceRecord {
	return &domain.AttendanceRecord{
		ID:           ma.ID,
		EmployeeID:   ma.EmployeeID,
		WorkDate:     ma.WorkDate,
		ClockInTime:  ma.ClockInTime,
		ClockOutTime: ma.ClockOutTime,
		Status:       domain.AttendanceStatus(ma.Status),
		Notes:        ma.Notes,
		CreatedAt:    ma.CreatedAt,
		UpdatedAt:    ma.UpdatedAt,
	}
}

// FindOpenRecord returns the employee's clocked-in record with no clock-out.
func (r *AttendanceRepository) FindOpenRecord(ctx context.Context, employeeID string) (*domain.AttendanceRecord, error) {
	return r.findOne(ctx, bson.M{
		"employee_id":    employeeID,
		"status":         string(domain.StatusClockedIn),
		"clock_out_time": bson.M{"$exists": false},
	})
}

func (r *AttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID, date string) (*domain.AttendanceRecord, error) {
	return r.findOne(ctx, bson.M{"employee_id": employeeID, "work_date": date})
}

func (r *AttendanceRepository) findOne(ctx context.Context, filter bson.M) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAttendance
	if err := r.coll.FindOne(ctx, filter).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find attendance record: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AttendanceRepository) Insert(ctx context.Context, record *domain.AttendanceRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, toMongoAttendance(record)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateRecord
		}
		return fmt.Errorf("insert attendance record: %w", err)
	}
	return nil
}

// CompleteRecord stamps the clock-out on an open record. The filter requires
// the record to still be open, so a concurrent close loses the race cleanly.
func (r *AttendanceRepository) CompleteRecord(ctx context.Context, recordID string, clockOut time.Time, notes string) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":            recordID,
		"status":         string(domain.StatusClockedIn),
		"clock_out_time": bson.M{"$exists": false},
	}
	set := bson.M{
		"status":         string(domain.StatusClockedOut),
		"clock_out_time": clockOut.UTC(),
		"updated_at":     clockOut.UTC(),
	}
	if notes != "" {
		set["notes"] = notes
	}

	var ma mongoAttendance
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&ma)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("complete attendance record: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AttendanceRepository) List(ctx context.Context, filter ports.AttendanceFilter) ([]*domain.AttendanceRecord, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildFilter(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count attendance records: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "work_date", Value: -1}, {Key: "employee_id", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendance records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.AttendanceRecord
	for cursor.Next(ctx) {
		var ma mongoAttendance
		if err := cursor.Decode(&ma); err != nil {
			return nil, 0, fmt.Errorf("decode attendance record: %w", err)
		}
		records = append(records, ma.toDomain())
	}
	return records, total, cursor.Err()
}

// AggregateStats groups matching records by status and averages worked hours
// over closed records.
func (r *AttendanceRepository) AggregateStats(ctx context.Context, filter ports.AttendanceFilter) (*ports.AttendanceStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: buildFilter(filter)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"avg_ms": bson.M{"$avg": bson.M{
				"$subtract": bson.A{"$clock_out_time", "$clock_in_time"},
			}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate attendance stats: %w", err)
	}
	defer cursor.Close(ctx)

	stats := &ports.AttendanceStats{}
	for cursor.Next(ctx) {
		var row struct {
			Status string   `bson:"_id"`
			Count  int64    `bson:"count"`
			AvgMs  *float64 `bson:"avg_ms"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode stats row: %w", err)
		}
		stats.Total += row.Count
		switch domain.AttendanceStatus(row.Status) {
		case domain.StatusClockedIn:
			stats.ClockedIn = row.Count
		case domain.StatusClockedOut:
			stats.ClockedOut = row.Count
			if row.AvgMs != nil {
				stats.AverageHours = *row.AvgMs / float64(time.Hour.Milliseconds())
			}
		case domain.StatusAbsent:
			stats.Absent = row.Count
		}
	}
	return stats, cursor.Err()
}

func buildFilter(filter ports.AttendanceFilter) bson.M {
	query := bson.M{}
	if filter.EmployeeID != "" {
		query["employee_id"] = filter.EmployeeID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	dateRange := bson.M{}
	if filter.DateFrom != "" {
		dateRange["$gte"] = filter.DateFrom
	}
	if filter.DateTo != "" {
		dateRange["$lte"] = filter.DateTo
	}
	if len(dateRange) > 0 {
		query["work_date"] = dateRange
	}
	return query
}

// EnsureIndexes creates the constraint indexes backing the state machine
// invariants: one record per (employee, date), and at most one open record
// per employee via a partial unique index on clocked-in records.
func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "work_date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "employee_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(domain.StatusClockedIn)}),
		},
		{Keys: bson.D{{Key: "work_date", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
