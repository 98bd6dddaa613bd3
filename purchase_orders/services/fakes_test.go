package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"purchase-orders-backend/db/models"
)

var fixedNow = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

func testDates() *DateNormalizer {
	return NewDateNormalizer(time.UTC).WithClock(func() time.Time { return fixedNow })
}

type memCustomerStore struct {
	mu        sync.Mutex
	customers []models.Customer
	creates   int
	findErr   error
}

func (s *memCustomerStore) FindCustomersByName(ctx context.Context, name string) ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []models.Customer
	for _, c := range s.customers {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memCustomerStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	s.customers = append(s.customers, *customer)
	return nil
}

type memOrderStore struct {
	mu       sync.Mutex
	orders   []models.PurchaseOrder
	attempts int
	// failOn makes CreatePurchaseOrder fail for orders with this client order number.
	failOn string
}

var errInsertFailed = errors.New("insert failed")

func (s *memOrderStore) CreatePurchaseOrder(ctx context.Context, order *models.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.failOn != "" && order.ClientOrderNumber == s.failOn {
		return errInsertFailed
	}
	s.orders = append(s.orders, *order)
	return nil
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*ImportSession
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]*ImportSession{}}
}

func (s *memSessionStore) SaveSession(ctx context.Context, session *ImportSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

func (s *memSessionStore) GetSession(ctx context.Context, id string) (*ImportSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *memSessionStore) ClaimSession(ctx context.Context, id string) (*ImportSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	delete(s.sessions, id)
	return session, nil
}

type memRunLog struct {
	runs []models.BulkImportRun
}

func (l *memRunLog) LogImportRun(ctx context.Context, run *models.BulkImportRun) error {
	l.runs = append(l.runs, *run)
	return nil
}

type notification struct {
	user, message string
	severity      Severity
}

type recordingNotifier struct {
	sent []notification
}

func (n *recordingNotifier) Notify(user, message string, severity Severity) {
	n.sent = append(n.sent, notification{user, message, severity})
}

// orderRaw is a valid row for the default mapping.
func orderRaw(m ColumnMapping, i int) RawRow {
	return RawRow{
		m.Header(FieldClientOrderNumber): TextCell(fmt.Sprintf("CO-%d", i)),
		m.Header(FieldCompanyName):       TextCell("Acme"),
		m.Header(FieldBuyingAmount):      NumberCell(100),
		m.Header(FieldSellingAmount):     NumberCell(125),
	}
}

func orderRaws(m ColumnMapping, n int) []RawRow {
	raws := make([]RawRow, n)
	for i := range raws {
		raws[i] = orderRaw(m, i)
	}
	return raws
}

// ordersCSV renders n valid rows as a CSV file with the default headers.
func ordersCSV(t *testing.T, m ColumnMapping, n int) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	headers := []string{
		m.Header(FieldClientOrderNumber),
		m.Header(FieldCompanyName),
		m.Header(FieldBuyingAmount),
		m.Header(FieldSellingAmount),
		m.Header(FieldOrderDate),
	}
	if err := w.Write(headers); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write([]string{fmt.Sprintf("CO-%d", i), "Acme", "100", "125.5", "15-01-2024"}); err != nil {
			t.Fatal(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
