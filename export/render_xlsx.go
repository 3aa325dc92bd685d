package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/oancholarevelo/invoice-builder/invoice"
)

const (
	itemsSheetName  = "Items"
	amountNumberFmt = "0.00"
)

// renderXLSX writes the line-item table into an XLSX workbook: a header
// row, one row per item with the computed amount, and subtotal/total rows.
func renderXLSX(ctx context.Context, doc *invoice.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	defaultSheet := file.GetSheetName(0)
	if defaultSheet != itemsSheetName {
		file.SetSheetName(defaultSheet, itemsSheetName)
	}

	stream, err := file.NewStreamWriter(itemsSheetName)
	if err != nil {
		return nil, invoice.NewError(invoice.KindInternal, "xlsx stream writer failed", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, invoice.NewError(invoice.KindInternal, "xlsx style failed", err)
	}
	amountFmt := amountNumberFmt
	amountStyle, err := file.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt})
	if err != nil {
		return nil, invoice.NewError(invoice.KindInternal, "xlsx style failed", err)
	}

	rowIndex := 1
	header := []any{
		excelize.Cell{StyleID: headerStyle, Value: "Item"},
		excelize.Cell{StyleID: headerStyle, Value: "Qty"},
		excelize.Cell{StyleID: headerStyle, Value: fmt.Sprintf("Rate (%s)", doc.Currency)},
		excelize.Cell{StyleID: headerStyle, Value: fmt.Sprintf("Amount (%s)", doc.Currency)},
	}
	if err := stream.SetRow(fmt.Sprintf("A%d", rowIndex), header); err != nil {
		return nil, err
	}
	rowIndex++

	for _, item := range doc.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells := []any{
			item.Description,
			excelize.Cell{StyleID: amountStyle, Value: item.Quantity.InexactFloat64()},
			excelize.Cell{StyleID: amountStyle, Value: item.Rate.InexactFloat64()},
			excelize.Cell{StyleID: amountStyle, Value: item.Amount().InexactFloat64()},
		}
		if err := stream.SetRow(fmt.Sprintf("A%d", rowIndex), cells); err != nil {
			return nil, err
		}
		rowIndex++
	}

	// Blank spacer row before the totals.
	rowIndex++
	totals := [][]any{
		{
			excelize.Cell{StyleID: headerStyle, Value: "Subtotal"}, nil, nil,
			excelize.Cell{StyleID: amountStyle, Value: doc.Subtotal.InexactFloat64()},
		},
		{
			excelize.Cell{StyleID: headerStyle, Value: "Total"}, nil, nil,
			excelize.Cell{StyleID: amountStyle, Value: doc.Total.InexactFloat64()},
		},
	}
	for _, row := range totals {
		if err := stream.SetRow(fmt.Sprintf("A%d", rowIndex), row); err != nil {
			return nil, err
		}
		rowIndex++
	}

	if err := stream.Flush(); err != nil {
		return nil, invoice.NewError(invoice.KindInternal, "xlsx flush failed", err)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, invoice.NewError(invoice.KindInternal, "xlsx write failed", err)
	}
	return buf.Bytes(), nil
}
