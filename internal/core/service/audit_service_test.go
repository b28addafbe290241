package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/invenflow/workforce-api/internal/core/ports"
)

type stubDedup struct {
	mu       sync.Mutex
	seen     map[string]bool
	checkErr error
}

func dedupKey(employeeID, action string, ts time.Time) string {
	return employeeID + "|" + action + "|" + ts.UTC().Format(time.RFC3339)
}

func (d *stubDedup) IsDuplicate(_ context.Context, employeeID, action string, ts time.Time) (bool, error) {
	if d.checkErr != nil {
		return false, d.checkErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen[dedupKey(employeeID, action, ts)], nil
}

func (d *stubDedup) Mark(_ context.Context, employeeID, action string, ts time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	d.seen[dedupKey(employeeID, action, ts)] = true
	return nil
}

type stubAuditRepo struct {
	mu        sync.Mutex
	events    []*ports.AuditEventInput
	insertErr error
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, event *ports.AuditEventInput) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *stubAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func testEvent() ports.AuditEventInput {
	return ports.AuditEventInput{
		EmployeeID: "E001",
		RecordID:   "rec-1",
		Action:     "clock_in",
		Status:     "clocked_in",
		Actor:      "E001",
		Timestamp:  time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestAuditService_PersistsNewEvent(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, &stubDedup{}, zerolog.Nop())

	if err := svc.Process(context.Background(), testEvent()); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if repo.count() != 1 {
		t.Fatalf("expected one persisted event, got %d", repo.count())
	}
}

func TestAuditService_SkipsDuplicate(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, &stubDedup{}, zerolog.Nop())

	event := testEvent()
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("first process failed: %v", err)
	}
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("duplicate process errored: %v", err)
	}
	if repo.count() != 1 {
		t.Fatalf("duplicate was persisted, got %d events", repo.count())
	}
}

func TestAuditService_DedupFailureStillPersists(t *testing.T) {
	repo := &stubAuditRepo{}
	dedup := &stubDedup{checkErr: errors.New("redis down")}
	svc := NewAuditService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), testEvent()); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if repo.count() != 1 {
		t.Fatalf("expected event persisted despite dedup failure, got %d", repo.count())
	}
}

func TestAuditService_InsertFailurePropagates(t *testing.T) {
	repo := &stubAuditRepo{insertErr: errors.New("write timeout")}
	svc := NewAuditService(repo, &stubDedup{}, zerolog.Nop())

	if err := svc.Process(context.Background(), testEvent()); err == nil {
		t.Fatal("expected insert failure to propagate")
	}
}
