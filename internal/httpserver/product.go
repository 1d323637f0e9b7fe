package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_service/internal/logging"
	middleware "github.com/Skotchmaster/product_service/internal/middleware/auth"
	"github.com/Skotchmaster/product_service/internal/service"
	"github.com/Skotchmaster/product_service/internal/transport"
	"github.com/Skotchmaster/product_service/internal/util"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.ListAll(ctx)
	if err != nil {
		return fail(l, "get_products", err)
	}

	l.Info("get_products_success", "count", len(items))
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, ok := parseID(c.Param("id"))
	if !ok {
		l.Warn("get_product_failed", "status", 400, "reason", "invalid id", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	product, err := h.Svc.GetByID(ctx, id)
	if err != nil {
		return fail(l.With("product_id", id), "get_product", err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) MyProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.my_products")

	caller, ok := middleware.FromContext(ctx)
	if !ok {
		l.Warn("my_products_failed", "status", 401, "reason", "no identity in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	ownerID := caller.UserID
	if raw := c.QueryParam("userId"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			l.Warn("my_products_failed", "status", 400, "reason", "invalid userId", "user_id_param", raw)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
		}
		ownerID = id
	}

	items, err := h.Svc.ListByOwner(ctx, ownerID)
	if err != nil {
		return fail(l, "my_products", err)
	}

	l.Info("my_products_success", "owner_id", ownerID, "count", len(items))
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		l.Warn("search_failed", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	from, limit := util.Window(c.QueryParam("page"), c.QueryParam("size"))

	total, items, err := h.Svc.Search(ctx, q, from, limit)
	if err != nil {
		return fail(l, "search", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": items})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	caller, ok := middleware.FromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Create(ctx, req, caller.UserID)
	if err != nil {
		return fail(l, "create_product", err)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	caller, ok := middleware.FromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, ok := parseID(c.Param("id"))
	if !ok {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid id", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Update(ctx, id, req, caller.UserID)
	if err != nil {
		return fail(l.With("product_id", id), "update_product", err)
	}

	l.Info("update_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	caller, ok := middleware.FromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, ok := parseID(c.Param("id"))
	if !ok {
		l.Warn("delete_product_failed", "status", 400, "reason", "invalid id", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Svc.Delete(ctx, id, caller.UserID); err != nil {
		return fail(l.With("product_id", id), "delete_product", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted successfully"})
}
