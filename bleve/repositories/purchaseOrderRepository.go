package repositories

import (
	"strings"

	"purchase-orders-backend/config"
	"purchase-orders-backend/db/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"go.uber.org/zap"
)

const PurchaseOrdersIndex = "purchase_orders"

type purchaseOrderDocument struct {
	ID                  string `json:"id"`
	PurchaseOrderNumber string `json:"purchase_order_number"`
	ClientOrderNumber   string `json:"client_order_number"`
	EtktNumber          string `json:"etkt_number"`
	BuyerID             string `json:"buyer_id"`
	BuyerName           string `json:"buyer_name"`
	OrderDescription    string `json:"order_description"`
	GrnNumber           string `json:"grn_number"`
	OrderDate           string `json:"order_date"`
	IsPaid              bool   `json:"is_paid"`
	IsDelivered         bool   `json:"is_delivered"`
	AddedVia            string `json:"added_via"`
	ImportRunID         string `json:"import_run_id,omitempty"`
}

// PurchaseOrderSearch holds the free-text query and filters of a search.
type PurchaseOrderSearch struct {
	Query       string
	Paid        *bool
	Delivered   *bool
	AddedVia    string
	ImportRunID string
	Size        int
	From        int
}

func purchaseOrderMapping() mapping.IndexMapping {
	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = keyword.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("id", keywordField)
	doc.AddFieldMappingsAt("buyer_id", keywordField)
	doc.AddFieldMappingsAt("added_via", keywordField)
	doc.AddFieldMappingsAt("import_run_id", keywordField)
	doc.AddFieldMappingsAt("order_date", keywordField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

func newPurchaseOrderDocument(order *models.PurchaseOrder, buyerName string) purchaseOrderDocument {
	doc := purchaseOrderDocument{
		ID:                  order.ID,
		PurchaseOrderNumber: order.PurchaseOrderNumber,
		ClientOrderNumber:   order.ClientOrderNumber,
		EtktNumber:          order.EtktNumber,
		BuyerID:             order.Buyer,
		BuyerName:           buyerName,
		OrderDescription:    order.OrderDescription,
		GrnNumber:           order.GrnNumber,
		OrderDate:           order.OrderDate,
		IsPaid:              order.IsPaid,
		IsDelivered:         order.IsDelivered,
		AddedVia:            string(order.AddedVia),
	}
	if order.ImportRunID != nil {
		doc.ImportRunID = order.ImportRunID.String()
	}
	return doc
}

func (r *BleveRepository) IndexPurchaseOrder(order *models.PurchaseOrder, buyerName string) error {
	if err := r.indexer.IndexDocument(PurchaseOrdersIndex, order.ID, newPurchaseOrderDocument(order, buyerName)); err != nil {
		config.Logger.Error("Failed to index purchase order into Bleve",
			zap.Error(err),
			zap.String("purchase_order_id", order.ID))
		return err
	}
	return nil
}

// IndexExistingPurchaseOrders rebuilds the index from stored orders. buyerNames
// maps customer ids to names; a preloaded Customer takes precedence.
func (r *BleveRepository) IndexExistingPurchaseOrders(orders []models.PurchaseOrder, buyerNames map[string]string) error {
	docs := make(map[string]interface{}, len(orders))
	for i := range orders {
		order := &orders[i]
		name := buyerNames[order.Buyer]
		if order.Customer != nil && order.Customer.Name != "" {
			name = order.Customer.Name
		}
		docs[order.ID] = newPurchaseOrderDocument(order, name)
	}

	if len(docs) == 0 {
		config.Logger.Info("No purchase orders to index into Bleve.")
		return nil
	}
	if err := r.indexer.BulkIndexDocuments(PurchaseOrdersIndex, docs); err != nil {
		config.Logger.Error("Failed to bulk index purchase orders into Bleve", zap.Error(err))
		return err
	}
	return nil
}

func (r *BleveRepository) DeletePurchaseOrder(id string) error {
	return r.indexer.DeleteDocument(PurchaseOrdersIndex, id)
}

func (r *BleveRepository) SearchPurchaseOrders(search PurchaseOrderSearch) (*bleve.SearchResult, error) {
	q := strings.TrimSpace(search.Query)
	lower := strings.ToLower(q)

	final := bleve.NewBooleanQuery()

	if q != "" {
		text := bleve.NewBooleanQuery()

		for field, boost := range map[string]float64{
			"purchase_order_number": 10,
			"client_order_number":   9,
			"etkt_number":           8,
			"buyer_name":            7,
			"grn_number":            6,
			"order_description":     4,
		} {
			match := bleve.NewMatchQuery(q)
			match.SetField(field)
			match.SetBoost(boost)
			text.AddShould(match)
		}

		for field, boost := range map[string]float64{
			"client_order_number": 5,
			"buyer_name":          5,
			"etkt_number":         4,
		} {
			prefix := bleve.NewPrefixQuery(lower)
			prefix.SetField(field)
			prefix.SetBoost(boost)
			text.AddShould(prefix)
		}

		fuzzy := bleve.NewFuzzyQuery(lower)
		fuzzy.SetField("buyer_name")
		fuzzy.SetFuzziness(1)
		fuzzy.SetBoost(2)
		text.AddShould(fuzzy)

		final.AddMust(text)
	} else {
		final.AddMust(bleve.NewMatchAllQuery())
	}

	if search.Paid != nil {
		paid := bleve.NewBoolFieldQuery(*search.Paid)
		paid.SetField("is_paid")
		final.AddMust(paid)
	}
	if search.Delivered != nil {
		delivered := bleve.NewBoolFieldQuery(*search.Delivered)
		delivered.SetField("is_delivered")
		final.AddMust(delivered)
	}
	if search.AddedVia != "" {
		via := bleve.NewTermQuery(search.AddedVia)
		via.SetField("added_via")
		final.AddMust(via)
	}
	if search.ImportRunID != "" {
		run := bleve.NewTermQuery(search.ImportRunID)
		run.SetField("import_run_id")
		final.AddMust(run)
	}

	size := search.Size
	if size <= 0 {
		size = 20
	}
	return r.indexer.SearchIndex(PurchaseOrdersIndex, final, size, search.From)
}
