package adminapi

import (
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talkincode/bannerstock/internal/domain"
	"github.com/talkincode/bannerstock/internal/webserver"
)

type salePayload struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Date      string `json:"date"` // any common format, defaults to now
}

// registerSalesRoutes registers the sale ledger endpoints
func registerSalesRoutes() {
	webserver.ApiPOST("/sales", createSale)
	webserver.ApiGET("/sales", listSales)
}

func createSale(c echo.Context) error {
	var payload salePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse sale", err.Error())
	}

	date := time.Now()
	if payload.Date != "" {
		parsed, err := dateparse.ParseLocal(payload.Date)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse sale date", err.Error())
		}
		date = parsed
	}

	sale, err := webserver.GetApp(c).Sales().RecordSale(payload.ProductID, payload.Quantity, date)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, sale)
}

func listSales(c echo.Context) error {
	start, end, err := dateRange(c)
	if err != nil {
		return failErr(c, err)
	}
	rows, err := webserver.GetApp(c).Sales().SalesBetween(start, end)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rows)
}

// dateRange reads the start/end query params. Missing values default
// to the current calendar month, the same default the report form of
// the original UI used.
func dateRange(c echo.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)

	if v := c.QueryParam("start"); v != "" {
		t, err := dateparse.ParseLocal(v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Wrapf(domain.ErrValidation, "bad start date %q", v)
		}
		start = t
	}
	if v := c.QueryParam("end"); v != "" {
		t, err := dateparse.ParseLocal(v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Wrapf(domain.ErrValidation, "bad end date %q", v)
		}
		end = t
	}
	return start, end, nil
}
