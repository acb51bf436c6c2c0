package handler

import (
	"errors"

	pricingapp "github.com/erp/pricing/internal/application/pricing"
	"github.com/erp/pricing/internal/domain/pricing"
	"github.com/erp/pricing/internal/domain/shared"
	"github.com/erp/pricing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PricingHandler handles price resolution API endpoints
type PricingHandler struct {
	BaseHandler
	resolver *pricingapp.PriceResolver
	catalog  pricing.CatalogReader
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(resolver *pricingapp.PriceResolver, catalog pricing.CatalogReader) *PricingHandler {
	return &PricingHandler{
		resolver: resolver,
		catalog:  catalog,
	}
}

// =============================================================================
// Request DTOs
// =============================================================================

// ResolvePriceRequest represents a request to resolve one customer/product price
//
//	@Description	Request body for resolving a single price
type ResolvePriceRequest struct {
	ProductID  string `json:"product_id" binding:"required" example:"P-1001"`
	CustomerID string `json:"customer_id" example:"C-2001"`
}

// ResolveBulkRequest represents a request to resolve prices for many products at once
//
//	@Description	Request body for bulk price resolution
type ResolveBulkRequest struct {
	CustomerID string   `json:"customer_id" binding:"required" example:"C-2001"`
	ProductIDs []string `json:"product_ids" example:"P-1001,P-1002"`
}

// SaveOverrideRequest represents a request to persist a negotiated custom price
//
//	@Description	Request body for saving a custom price override
type SaveOverrideRequest struct {
	CustomerID string          `json:"customer_id" binding:"required" example:"C-2001"`
	ProductID  string          `json:"product_id" binding:"required" example:"P-1001"`
	Price      decimal.Decimal `json:"price" binding:"required" example:"75.00"`
	Reason     string          `json:"reason" example:"annual contract"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// ResolutionResponse represents a resolved price in API responses
//
//	@Description	Resolved price details
type ResolutionResponse struct {
	Price  string `json:"price" example:"100.00"`
	Kind   string `json:"kind" example:"tier"`
	Margin string `json:"margin,omitempty" example:"0.2000"`
	Tier   string `json:"tier,omitempty" example:"tier3"`
	Source string `json:"source,omitempty" example:"fallback"`
}

// ResolveBulkResponse maps product IDs to their resolved prices
//
//	@Description	Bulk resolution result
type ResolveBulkResponse struct {
	CustomerID string                        `json:"customer_id" example:"C-2001"`
	Prices     map[string]ResolutionResponse `json:"prices"`
}

// SaveOverrideResponse reports whether an override took effect
//
//	@Description	Override write result
type SaveOverrideResponse struct {
	Applied bool `json:"applied" example:"true"`
}

func newResolutionResponse(r pricing.Resolution) ResolutionResponse {
	resp := ResolutionResponse{
		Price:  r.Price.String(),
		Kind:   string(r.Kind),
		Tier:   string(r.Tier),
		Source: r.Source,
	}
	if r.Margin != nil {
		resp.Margin = r.Margin.String()
	}
	return resp
}

// =============================================================================
// Handlers
// =============================================================================

// Resolve godoc
//
//	@ID				resolvePrice
//	@Summary		Resolve the price a customer pays for a product
//	@Description	Resolves via cache, then the pricing authority, falling back to tier list prices when the authority is unreachable
//	@Tags			pricing
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ResolvePriceRequest	true	"Resolution request"
//	@Success		200		{object}	APIResponse[ResolutionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/pricing/resolve [post]
func (h *PricingHandler) Resolve(c *gin.Context) {
	var req ResolvePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	product, err := h.catalog.FindProduct(ctx, req.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var customer *pricing.Customer
	if req.CustomerID != "" {
		customer, err = h.catalog.FindCustomer(ctx, req.CustomerID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			h.HandleError(c, err)
			return
		}
		// An unknown customer resolves like an anonymous one: retail
	}

	resolution := h.resolver.ResolvePrice(ctx, product, customer)
	h.Success(c, newResolutionResponse(resolution))
}

// ResolveBulk godoc
//
//	@ID				resolveBulkPrices
//	@Summary		Resolve prices for many products in one call
//	@Description	Fetches all prices for one customer with a single authority round trip and fans the results into the cache
//	@Tags			pricing
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ResolveBulkRequest	true	"Bulk resolution request"
//	@Success		200		{object}	APIResponse[ResolveBulkResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/pricing/resolve-bulk [post]
func (h *PricingHandler) ResolveBulk(c *gin.Context) {
	var req ResolveBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resolutions := h.resolver.ResolveBulk(c.Request.Context(), req.CustomerID, req.ProductIDs)

	resp := ResolveBulkResponse{
		CustomerID: req.CustomerID,
		Prices:     make(map[string]ResolutionResponse, len(resolutions)),
	}
	for productID, resolution := range resolutions {
		resp.Prices[productID] = newResolutionResponse(resolution)
	}

	h.Success(c, resp)
}

// SaveOverride godoc
//
//	@ID				saveCustomPrice
//	@Summary		Save a negotiated custom price
//	@Description	Persists a custom price through the pricing authority and invalidates the affected cache entry
//	@Tags			pricing
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SaveOverrideRequest	true	"Override request"
//	@Success		200		{object}	APIResponse[SaveOverrideResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/pricing/overrides [put]
func (h *PricingHandler) SaveOverride(c *gin.Context) {
	var req SaveOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := pricing.CustomPriceInput{
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Price:      req.Price,
		Reason:     req.Reason,
	}
	if err := input.Validate(); err != nil {
		h.HandleError(c, err)
		return
	}

	if !h.resolver.SaveOverride(c.Request.Context(), input) {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeAuthorityUnavailable),
			dto.ErrCodeAuthorityUnavailable, "Custom price could not be saved")
		return
	}

	h.Success(c, SaveOverrideResponse{Applied: true})
}

// Cached godoc
//
//	@ID				getCachedResolution
//	@Summary		Read a cached resolution without resolving
//	@Description	Pure cache lookup; does not contact the authority or compute fallbacks
//	@Tags			pricing
//	@Produce		json
//	@Param			customer_id	query		string	true	"Customer ID"
//	@Param			product_id	query		string	true	"Product ID"
//	@Success		200			{object}	APIResponse[ResolutionResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/pricing/cached [get]
func (h *PricingHandler) Cached(c *gin.Context) {
	customerID := c.Query("customer_id")
	productID := c.Query("product_id")
	if customerID == "" || productID == "" {
		h.BadRequest(c, "customer_id and product_id are required")
		return
	}

	resolution := h.resolver.CachedResolution(c.Request.Context(), productID, customerID)
	if resolution == nil {
		h.NotFound(c, "No cached resolution for this customer and product")
		return
	}

	h.Success(c, newResolutionResponse(*resolution))
}

// InvalidateEntry godoc
//
//	@ID				invalidateCacheEntry
//	@Summary		Drop one cached resolution
//	@Tags			pricing
//	@Param			customerID	path	string	true	"Customer ID"
//	@Param			productID	path	string	true	"Product ID"
//	@Success		204
//	@Failure		500	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/pricing/cache/{customerID}/{productID} [delete]
func (h *PricingHandler) InvalidateEntry(c *gin.Context) {
	customerID := c.Param("customerID")
	productID := c.Param("productID")

	if err := h.resolver.InvalidateEntry(c.Request.Context(), customerID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// InvalidateCustomer godoc
//
//	@ID				invalidateCustomerCache
//	@Summary		Drop all cached resolutions for one customer
//	@Tags			pricing
//	@Param			customerID	path	string	true	"Customer ID"
//	@Success		204
//	@Failure		500	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/pricing/cache/{customerID} [delete]
func (h *PricingHandler) InvalidateCustomer(c *gin.Context) {
	customerID := c.Param("customerID")

	if err := h.resolver.InvalidateCustomer(c.Request.Context(), customerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// InvalidateAll godoc
//
//	@ID				invalidateAllCache
//	@Summary		Drop every cached resolution
//	@Tags			pricing
//	@Success		204
//	@Failure		500	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/pricing/cache [delete]
func (h *PricingHandler) InvalidateAll(c *gin.Context) {
	if err := h.resolver.InvalidateAll(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
