package service

import (
	"fmt"

	"moneymanager/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExcelContentType xlsx 的 MIME 类型
const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelService 将收支记录导出为 Excel
type ExcelService struct{}

// NewExcelService 创建导出服务
func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// Filename 导出文件名
func (s *ExcelService) Filename(kind models.Kind) string {
	return fmt.Sprintf("%s_details.xlsx", kind)
}

// Build 生成工作簿：表头、每条记录一行、合计行
func (s *ExcelService) Build(kind models.Kind, list []models.Transaction, categoryNames map[uint]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := kind.DisplayName() + "明细"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	amountStyle, _ := f.NewStyle(&excelize.Style{
		NumFmt:    2, // 0.00
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:    border,
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 15)
	f.SetColWidth(sheetName, "D", "D", 15)
	f.SetColWidth(sheetName, "E", "E", 15)

	headers := []string{"序号", "名称", "类别", "金额", "日期"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	total := decimal.Zero
	for i, t := range list {
		row := i + 2
		category := categoryNames[t.CategoryID]
		if category == "" {
			category = "N/A"
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.Amount.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.Date)

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), dataStyle)
		f.SetCellStyle(sheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), amountStyle)
		total = total.Add(t.Amount)
	}

	summaryRow := len(list) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow), total.InexactFloat64())
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(list)))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("E%d", summaryRow), summaryStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("生成 Excel 失败: %w", err)
	}
	return buf.Bytes(), nil
}
