package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/fieldops/po-tracker/internal/domain/entity"
)

const sheetName = "PO Summary"

// BuildPOGroupWorkbook renders a PO group and its member orders into an
// xlsx workbook, one row per line item, with a grand total at the bottom.
// The caller owns the returned file and must Close it.
func BuildPOGroupWorkbook(group *entity.POGroup) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Purchase Order %s", group.PONumber))
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Orders: %d", len(group.Orders)))

	headers := []string{"Order #", "Vendor", "Unit", "Ordered By", "Status", "Item", "Description", "Quantity", "Unit Cost", "Line Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheetName, cell, h)
	}
	first, _ := excelize.CoordinatesToCellName(1, 4)
	last, _ := excelize.CoordinatesToCellName(len(headers), 4)
	f.SetCellStyle(sheetName, first, last, headerStyle)

	row := 5
	var grandTotal float64
	for i := range group.Orders {
		order := &group.Orders[i]
		grandTotal += order.Total()

		vendorName := ""
		if order.Vendor != nil {
			vendorName = order.Vendor.Name
		}
		unitNumber := ""
		if order.Unit != nil {
			unitNumber = order.Unit.UnitNumber
		}
		orderedBy := ""
		if order.OrderedBy != nil {
			orderedBy = order.OrderedBy.FullName()
		}

		writeRow := func(item *entity.OrderItem) {
			f.SetCellValue(sheetName, cell(1, row), order.OrderNumber)
			f.SetCellValue(sheetName, cell(2, row), vendorName)
			f.SetCellValue(sheetName, cell(3, row), unitNumber)
			f.SetCellValue(sheetName, cell(4, row), orderedBy)
			f.SetCellValue(sheetName, cell(5, row), order.Status)
			if item != nil {
				f.SetCellValue(sheetName, cell(6, row), item.LineNumber)
				f.SetCellValue(sheetName, cell(7, row), item.Description)
				if item.Quantity != nil {
					f.SetCellValue(sheetName, cell(8, row), *item.Quantity)
				}
				if item.UnitCost != nil {
					f.SetCellValue(sheetName, cell(9, row), *item.UnitCost)
				}
				if t := item.Total(); t != nil {
					f.SetCellValue(sheetName, cell(10, row), *t)
				}
			} else {
				f.SetCellValue(sheetName, cell(7, row), order.Description)
			}
			row++
		}

		if len(order.Items) == 0 {
			writeRow(nil)
			continue
		}
		for j := range order.Items {
			writeRow(&order.Items[j])
		}
	}

	f.SetCellValue(sheetName, cell(9, row+1), "Total")
	f.SetCellValue(sheetName, cell(10, row+1), grandTotal)
	f.SetCellStyle(sheetName, cell(10, 5), cell(10, row+1), moneyStyle)
	f.SetCellStyle(sheetName, cell(9, 5), cell(9, row), moneyStyle)

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "D", 18)
	f.SetColWidth(sheetName, "G", "G", 40)

	return f, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
