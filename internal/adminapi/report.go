package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/talkincode/bannerstock/internal/domain"
	"github.com/talkincode/bannerstock/internal/webserver"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// registerReportRoutes registers the report engine endpoints
func registerReportRoutes() {
	webserver.ApiGET("/report", getReport)
	webserver.ApiGET("/report/export", exportReport)
}

func getReport(c echo.Context) error {
	start, end, err := dateRange(c)
	if err != nil {
		return failErr(c, err)
	}
	report, err := webserver.GetApp(c).Sales().GenerateReport(start, end)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, report)
}

func exportReport(c echo.Context) error {
	start, end, err := dateRange(c)
	if err != nil {
		return failErr(c, err)
	}
	report, err := webserver.GetApp(c).Sales().GenerateReport(start, end)
	if err != nil {
		return failErr(c, err)
	}

	rows := append(report.Lines, report.Totals)
	switch strings.ToLower(c.QueryParam("format")) {
	case "", "csv":
		return exportCSV(c, rows)
	case "xlsx":
		return exportXLSX(c, rows)
	default:
		return fail(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx", nil)
	}
}

func exportCSV(c echo.Context, rows []domain.ReportLine) error {
	buf := &bytes.Buffer{}
	if err := gocsv.Marshal(&rows, buf); err != nil {
		return failErr(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sales-report.csv"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func exportXLSX(c echo.Context, rows []domain.ReportLine) error {
	f := excelize.NewFile()
	const sheet = "Sheet1"
	for i, h := range []string{"Product", "Quantity", "Revenue", "Profit"} {
		f.SetCellValue(sheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	for i, line := range rows {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), line.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), line.QuantitySold)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), line.TotalRevenue)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), line.TotalProfit)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return failErr(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sales-report.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
