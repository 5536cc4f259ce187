package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"bullpen/internal/external"
	"bullpen/internal/models"
	"bullpen/internal/repository"
)

// In-memory fakes standing in for the entity backend. Patches are applied
// by key the same way the real backend does.

type fakeEventStore struct {
	mu     sync.Mutex
	events map[string]*models.Event
	failOn string
}

func newFakeEventStore(events ...*models.Event) *fakeEventStore {
	s := &fakeEventStore{events: map[string]*models.Event{}}
	for _, e := range events {
		s.events[e.ID] = e
	}
	return s
}

func (s *fakeEventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s not found", id)
	}
	copied := *e
	return &copied, nil
}

func (s *fakeEventStore) Update(ctx context.Context, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.failOn {
		return fmt.Errorf("write failed for event %s", id)
	}
	e, ok := s.events[id]
	if !ok {
		return fmt.Errorf("event %s not found", id)
	}
	if v, ok := patch["status"].(string); ok {
		e.Status = v
	}
	if v, ok := patch["admin_notes"].(string); ok {
		e.AdminNotes = v
	}
	if v, ok := patch["capacity"].(int); ok {
		e.Capacity = v
	}
	return nil
}

type fakeTicketStore struct {
	mu      sync.Mutex
	tickets map[string]*models.EventTicket
	failOn  string
}

func newFakeTicketStore(tickets ...*models.EventTicket) *fakeTicketStore {
	s := &fakeTicketStore{tickets: map[string]*models.EventTicket{}}
	for _, t := range tickets {
		s.tickets[t.ID] = t
	}
	return s
}

func (s *fakeTicketStore) GetByID(ctx context.Context, id string) (*models.EventTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %s not found", id)
	}
	copied := *t
	return &copied, nil
}

func (s *fakeTicketStore) ActiveByEvent(ctx context.Context, eventID string) ([]models.EventTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.EventTicket
	for _, t := range s.tickets {
		if t.EventID == eventID && t.Status == models.TicketStatusActive {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTicketStore) Update(ctx context.Context, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.failOn {
		return fmt.Errorf("write failed for ticket %s", id)
	}
	t, ok := s.tickets[id]
	if !ok {
		return fmt.Errorf("ticket %s not found", id)
	}
	if v, ok := patch["status"].(string); ok {
		t.Status = v
	}
	return nil
}

func (s *fakeTicketStore) statusCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int{}
	for _, t := range s.tickets {
		counts[t.Status]++
	}
	return counts
}

type fakeRefundStore struct {
	mu       sync.Mutex
	requests map[string]*models.RefundRequest
	nextID   int
}

func newFakeRefundStore(reqs ...*models.RefundRequest) *fakeRefundStore {
	s := &fakeRefundStore{requests: map[string]*models.RefundRequest{}}
	for _, r := range reqs {
		s.requests[r.ID] = r
	}
	return s
}

func (s *fakeRefundStore) GetByID(ctx context.Context, id string) (*models.RefundRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("refund request %s not found", id)
	}
	copied := *r
	return &copied, nil
}

func (s *fakeRefundStore) ByStatus(ctx context.Context, status string) ([]models.RefundRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RefundRequest
	for _, r := range s.requests {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeRefundStore) BulkCreate(ctx context.Context, reqs []models.RefundRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range reqs {
		s.nextID++
		created := reqs[i]
		created.ID = fmt.Sprintf("refund-%d", s.nextID)
		s.requests[created.ID] = &created
	}
	return nil
}

func (s *fakeRefundStore) Update(ctx context.Context, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return fmt.Errorf("refund request %s not found", id)
	}
	if v, ok := patch["status"].(string); ok {
		r.Status = v
	}
	if v, ok := patch["rejection_reason"].(string); ok {
		r.RejectionReason = v
	}
	if v, ok := patch["processed_by"].(string); ok {
		r.ProcessedBy = v
	}
	if v, ok := patch["gateway_refund_id"].(string); ok {
		r.GatewayRefundID = v
	}
	return nil
}

func (s *fakeRefundStore) all() []models.RefundRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RefundRequest
	for _, r := range s.requests {
		out = append(out, *r)
	}
	return out
}

type fakeAttendeeStore struct {
	mu        sync.Mutex
	attendees []*models.EventAttendee
}

func newFakeAttendeeStore(attendees ...*models.EventAttendee) *fakeAttendeeStore {
	return &fakeAttendeeStore{attendees: attendees}
}

func (s *fakeAttendeeStore) ByEvent(ctx context.Context, eventID string) ([]models.EventAttendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.EventAttendee
	for _, a := range s.attendees {
		if a.EventID == eventID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeAttendeeStore) Update(ctx context.Context, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attendees {
		if a.ID != id {
			continue
		}
		if v, ok := patch["rsvp_status"].(string); ok {
			a.RSVPStatus = v
		}
		if v, ok := patch["confirmed"].(bool); ok {
			a.Confirmed = v
		}
		return nil
	}
	return fmt.Errorf("attendee %s not found", id)
}

type fakeNotificationStore struct {
	mu      sync.Mutex
	single  []models.Notification
	batches [][]models.Notification
}

func (s *fakeNotificationStore) BulkCreate(ctx context.Context, notifications []models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, notifications)
	return nil
}

func (s *fakeNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.single = append(s.single, *n)
	return nil
}

func (s *fakeNotificationStore) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := len(s.single)
	for _, b := range s.batches {
		count += len(b)
	}
	return count
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *fakePublisher) Publish(subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *fakePublisher) published(subject string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, s := range p.subjects {
		if s == subject {
			count++
		}
	}
	return count
}

type fakeJournal struct {
	mu        sync.Mutex
	runs      map[string]*repository.WorkflowRun
	nextID    int64
	steps     []int
	completed bool
	failed    bool
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{runs: map[string]*repository.WorkflowRun{}}
}

// Begin mirrors the real repository: a failed run is taken over for retry,
// a started or completed run blocks.
func (j *fakeJournal) Begin(ctx context.Context, run *repository.WorkflowRun) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if existing, ok := j.runs[run.IdempotencyKey]; ok {
		if existing.Status != repository.RunFailed {
			return false, nil
		}
		existing.Status = repository.RunStarted
		existing.StepsCompleted = 0
		run.ID = existing.ID
		return true, nil
	}
	j.nextID++
	run.ID = j.nextID
	run.Status = repository.RunStarted
	copied := *run
	j.runs[run.IdempotencyKey] = &copied
	return true, nil
}

func (j *fakeJournal) byID(id int64) *repository.WorkflowRun {
	for _, run := range j.runs {
		if run.ID == id {
			return run
		}
	}
	return nil
}

func (j *fakeJournal) Step(ctx context.Context, id int64, stepsCompleted int) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.steps = append(j.steps, stepsCompleted)
	if run := j.byID(id); run != nil {
		run.StepsCompleted = stepsCompleted
	}
	return nil
}

func (j *fakeJournal) Complete(ctx context.Context, id int64, affected int) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if run := j.byID(id); run != nil {
		run.Status = repository.RunCompleted
		run.AffectedCount = affected
	}
	j.completed = true
	return nil
}

func (j *fakeJournal) Fail(ctx context.Context, id int64, cause error) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if run := j.byID(id); run != nil {
		run.Status = repository.RunFailed
	}
	j.failed = true
	return nil
}

type fakeLocker struct {
	mu       sync.Mutex
	held     bool
	acquired int
	released int
	denied   bool
}

func (l *fakeLocker) AcquireEventLock(ctx context.Context, eventID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.denied || l.held {
		return false, fmt.Errorf("event is locked by another operation")
	}
	l.held = true
	l.acquired++
	return true, nil
}

func (l *fakeLocker) ReleaseEventLock(ctx context.Context, eventID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	l.released++
}

type fakeGateway struct {
	mu          sync.Mutex
	initCalls   []string
	checkStatus string
	initFails   bool
}

func (g *fakeGateway) InitRefund(amount decimal.Decimal, requestID, currency, description string) (*external.RefundInitResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.initFails {
		return nil, fmt.Errorf("gateway unavailable")
	}
	g.initCalls = append(g.initCalls, requestID)
	return &external.RefundInitResponse{
		Success:   true,
		RequestID: requestID,
		Status:    external.GatewayRefundPending,
	}, nil
}

func (g *fakeGateway) CheckRefund(requestID string) (*external.RefundStatusResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	status := g.checkStatus
	if status == "" {
		status = external.GatewayRefundPending
	}
	return &external.RefundStatusResponse{
		Success:  true,
		RefundID: "gw-" + requestID,
		Status:   status,
	}, nil
}
