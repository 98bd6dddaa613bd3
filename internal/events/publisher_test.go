package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"purchase-orders-backend/db/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type fakeKafkaWriter struct {
	msgs []kafka.Message
	fail bool
}

func (f *fakeKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.fail {
		return errors.New("broker unavailable")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeKafkaWriter) Close() error { return nil }

func TestPublishOrderImported(t *testing.T) {
	fk := &fakeKafkaWriter{}
	p := NewKafkaPublisherWith(fk)
	p.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	runID := uuid.New()
	order := &models.PurchaseOrder{
		ID:                  "po-1",
		PurchaseOrderNumber: "PO-12345678",
		Buyer:               "Cus-1",
		BuyingAmount:        decimal.NewFromInt(100),
		SellingAmount:       decimal.NewFromInt(150),
		OrderDate:           "2024-03-01",
		ImportRunID:         &runID,
		CreatedBy:           "ops@example.com",
	}

	if err := p.PublishOrderImported(context.Background(), order, "Acme"); err != nil {
		t.Fatalf("PublishOrderImported: %v", err)
	}
	if len(fk.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(fk.msgs))
	}
	msg := fk.msgs[0]
	if string(msg.Key) != "Cus-1" {
		t.Errorf("key = %q, want buyer id", msg.Key)
	}

	var ev OrderEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != EventPurchaseOrderImported || ev.BuyerName != "Acme" || ev.ImportRunID != runID.String() {
		t.Errorf("unexpected event %+v", ev)
	}
	if !ev.SellingAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("selling amount = %s", ev.SellingAmount)
	}
}

func TestPublishOrderImportedFailure(t *testing.T) {
	p := NewKafkaPublisherWith(&fakeKafkaWriter{fail: true})
	if err := p.PublishOrderImported(context.Background(), &models.PurchaseOrder{ID: "po-1"}, "Acme"); err == nil {
		t.Fatal("expected broker error")
	}
}
