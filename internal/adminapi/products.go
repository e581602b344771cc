package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/talkincode/bannerstock/internal/catalog"
	"github.com/talkincode/bannerstock/internal/domain"
	"github.com/talkincode/bannerstock/internal/webserver"
)

type productPayload struct {
	Type        string  `json:"type"`
	Size        string  `json:"size"`
	Density     string  `json:"density"`
	Price       float64 `json:"price"`
	CostPrice   float64 `json:"cost_price"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
	ImageBase64 string  `json:"image_base64"`
}

type adjustPayload struct {
	Delta int `json:"delta"`
}

// registerProductRoutes registers catalog CRUD and stock endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
	webserver.ApiPOST("/products/:id/adjust", adjustProductQuantity)
}

func listProducts(c echo.Context) error {
	filter := catalog.Filter{
		Type:         c.QueryParam("type"),
		SizeQuery:    c.QueryParam("size"),
		DensityQuery: c.QueryParam("density"),
	}
	rows, err := webserver.GetApp(c).Catalog().Query(filter)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rows)
}

func getProduct(c echo.Context) error {
	id := cast.ToInt64(c.Param("id"))
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := webserver.GetApp(c).Catalog().Get(id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	p, err := webserver.GetApp(c).Catalog().Create(catalog.Draft{
		Type:        payload.Type,
		Size:        payload.Size,
		Density:     payload.Density,
		Price:       payload.Price,
		CostPrice:   payload.CostPrice,
		Quantity:    payload.Quantity,
		Description: payload.Description,
		ImageBase64: payload.ImageBase64,
	})
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id := cast.ToInt64(c.Param("id"))
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	p := &domain.Product{
		ID:          id,
		Type:        payload.Type,
		Size:        payload.Size,
		Density:     payload.Density,
		Price:       payload.Price,
		CostPrice:   payload.CostPrice,
		Quantity:    payload.Quantity,
		Description: payload.Description,
		ImageBase64: payload.ImageBase64,
	}
	if err := webserver.GetApp(c).Catalog().Update(p); err != nil {
		return failErr(c, err)
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id := cast.ToInt64(c.Param("id"))
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := webserver.GetApp(c).Catalog().Delete(id); err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func adjustProductQuantity(c echo.Context) error {
	id := cast.ToInt64(c.Param("id"))
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload adjustPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse adjustment", err.Error())
	}
	p, err := webserver.GetApp(c).Catalog().AdjustQuantity(id, payload.Delta)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, p)
}
