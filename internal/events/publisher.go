package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"purchase-orders-backend/db/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const EventPurchaseOrderImported = "purchase_order.imported"

// OrderEvent is the message value published for a committed purchase order.
type OrderEvent struct {
	Type                string          `json:"type"`
	PurchaseOrderID     string          `json:"purchase_order_id"`
	PurchaseOrderNumber string          `json:"purchase_order_number"`
	ClientOrderNumber   string          `json:"client_order_number"`
	BuyerID             string          `json:"buyer_id"`
	BuyerName           string          `json:"buyer_name"`
	BuyingAmount        decimal.Decimal `json:"buying_amount"`
	SellingAmount       decimal.Decimal `json:"selling_amount"`
	OrderDate           string          `json:"order_date"`
	ImportRunID         string          `json:"import_run_id,omitempty"`
	CreatedBy           string          `json:"created_by"`
	OccurredAt          time.Time       `json:"occurred_at"`
}

// KafkaPublisher writes order events to a topic, keyed by buyer so that the
// events of one customer stay ordered.
type KafkaPublisher struct {
	writer kafkaMessageWriter
	now    func() time.Time
}

type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaPublisher connects to a comma separated broker list.
func NewKafkaPublisher(bootstrap, topic string) *KafkaPublisher {
	var brokers []string
	for _, b := range strings.Split(bootstrap, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return NewKafkaPublisherWith(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	})
}

func NewKafkaPublisherWith(w kafkaMessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w, now: time.Now}
}

func NewOrderEvent(order *models.PurchaseOrder, buyerName string, at time.Time) OrderEvent {
	ev := OrderEvent{
		Type:                EventPurchaseOrderImported,
		PurchaseOrderID:     order.ID,
		PurchaseOrderNumber: order.PurchaseOrderNumber,
		ClientOrderNumber:   order.ClientOrderNumber,
		BuyerID:             order.Buyer,
		BuyerName:           buyerName,
		BuyingAmount:        order.BuyingAmount,
		SellingAmount:       order.SellingAmount,
		OrderDate:           order.OrderDate,
		CreatedBy:           order.CreatedBy,
		OccurredAt:          at,
	}
	if order.ImportRunID != nil {
		ev.ImportRunID = order.ImportRunID.String()
	}
	return ev
}

// PublishOrderImported implements services.OrderPublisher.
func (p *KafkaPublisher) PublishOrderImported(ctx context.Context, order *models.PurchaseOrder, buyerName string) error {
	b, err := json.Marshal(NewOrderEvent(order, buyerName, p.now()))
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.Buyer),
		Value: b,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(EventPurchaseOrderImported)},
		},
	})
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }
