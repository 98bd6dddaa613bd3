package services

import (
	"io"

	"purchase-orders-backend/utils"
)

const TemplateFileName = "purchase_orders_template.xlsx"

// TemplateSheet is the import template: the header row and one sample order.
// Required columns are highlighted.
func TemplateSheet(m ColumnMapping) utils.Sheet {
	t := m.Tokens()
	sample := map[Field]interface{}{
		FieldClientOrderNumber: "CLIENT-001",
		FieldCompanyName:       "مثال علي اسم الشركة",
		FieldDescription:       "مثال علي وصف الطلبية",
		FieldBuyingAmount:      120.0,
		FieldSellingAmount:     150.0,
		FieldEtktNumber:        "ETKT-12345",
		FieldEtktDate:          "15-01-2024",
		FieldGrnNumber:         "GRN-001",
		FieldPaid:              t.Yes,
		FieldDelivered:         t.Yes,
		FieldPaymentDuration:   30,
		FieldOrderDate:         "15-01-2024",
		FieldNotes:             "ملاحظات إضافية",
		FieldNotes2:            "ملاحظات 2",
	}

	row := make([]interface{}, 0, len(Fields))
	for _, f := range Fields {
		row = append(row, sample[f])
	}

	return utils.Sheet{
		Name:    "Purchase Order Template",
		Headers: m.Headers(),
		Required: map[string]bool{
			m.Header(FieldCompanyName):   true,
			m.Header(FieldBuyingAmount):  true,
			m.Header(FieldSellingAmount): true,
		},
		Rows: [][]interface{}{row},
		RTL:  true,
	}
}

// WriteTemplate streams the template workbook to w.
func WriteTemplate(w io.Writer, m ColumnMapping) error {
	f, err := utils.BuildWorkbook(TemplateSheet(m))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}
