package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"

	"github.com/15palle/membership/internal/model"
	"github.com/15palle/membership/internal/service"
)

const badgeImageSize = 256

type listQuery struct {
	Query    string `query:"query"`
	Verified *bool  `query:"verified"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"pageSize" validate:"omitempty,min=1,max=100"`
}

func (q listQuery) filter() model.CustomerFilter {
	return model.CustomerFilter{
		Query:    q.Query,
		Verified: q.Verified,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}

type newCustomer struct {
	Name  string  `json:"name" validate:"required"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

type customerNotes struct {
	Notes string `json:"notes"`
}

// badgePayload is what the membership badge QR encodes; scanning it at the
// door must carry enough to find the record without a second lookup
type badgePayload struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// CustomerHTTPHandler is http handler for customer endpoint
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc}
}

// List queries the customer directory
// @Summary     List customers
// @Description Returns a directory page filtered by verified flag and search query
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       query    query    string false "Substring matched against name or email"
// @Param       verified query    bool   false "Verification filter"
// @Param       page     query    int    false "Page number, 1-based"
// @Param       pageSize query    int    false "Page size"
// @Success     200      {object} model.CustomerPage
// @Failure     403      {object} echo.HTTPError
// @Router      /api/v1/customers [get]
func (h *CustomerHTTPHandler) List(c echo.Context) error {
	var q listQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&q); err != nil {
		return err
	}

	page, err := h.customerSvc.List(c.Request().Context(), q.filter())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get returns single customer by id
// @Summary     Get customer
// @Description Returns the customer with provided id
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path     string true "Customer id"
// @Success     200    {object} model.Customer
// @Failure     404    {object} echo.HTTPError
// @Router      /api/v1/customers/{id} [get]
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	customer, err := h.customerSvc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Post creates new customer
// @Summary     New customer
// @Description Creates an unverified customer record
// @Tags        customers
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param 		newCustomer body	 newCustomer true "Data for new customer"
// @Success     201    		{object} model.Customer
// @Failure     400    		{object} echo.HTTPError
// @Router      /api/v1/customers [post]
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var nc newCustomer
	if err := c.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nc); err != nil {
		return err
	}

	customer, err := h.customerSvc.Create(c.Request().Context(), &model.NewCustomer{
		Name:  nc.Name,
		Email: nc.Email,
		Phone: nc.Phone,
		Notes: nc.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, customer)
}

// Verify marks customer as verified
// @Summary     Verify customer
// @Description Sets the verified flag and stamps verifiedAt
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path     string true "Customer id"
// @Success     200    {object} model.Customer
// @Failure     404    {object} echo.HTTPError
// @Router      /api/v1/customers/{id}/verify [post]
func (h *CustomerHTTPHandler) Verify(c echo.Context) error {
	customer, err := h.customerSvc.Verify(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Revoke withdraws customer verification
// @Summary     Revoke verification
// @Description Clears the verified flag and verifiedAt
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path     string true "Customer id"
// @Success     200    {object} model.Customer
// @Failure     404    {object} echo.HTTPError
// @Router      /api/v1/customers/{id}/revoke [post]
func (h *CustomerHTTPHandler) Revoke(c echo.Context) error {
	customer, err := h.customerSvc.Revoke(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// PutNotes replaces the owner notes on a customer
// @Summary     Update notes
// @Description Replaces the free-text annotation unconditionally
// @Tags        customers
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param       id            path     string        true "Customer id"
// @Param 		customerNotes body	   customerNotes true "Notes text"
// @Success     200           {object} model.Customer
// @Failure     404           {object} echo.HTTPError
// @Router      /api/v1/customers/{id}/notes [put]
func (h *CustomerHTTPHandler) PutNotes(c echo.Context) error {
	var cn customerNotes
	if err := c.Bind(&cn); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	customer, err := h.customerSvc.UpdateNotes(c.Request().Context(), c.Param("id"), cn.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// ExportCSV streams the filtered directory as CSV
// @Summary     Export customers
// @Description Streams the filtered directory in the dashboard CSV layout
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     text/csv
// @Param       query    query string false "Substring matched against name or email"
// @Param       verified query bool   false "Verification filter"
// @Success     200      "CSV document"
// @Failure     403      {object} echo.HTTPError
// @Router      /api/v1/customers/export [get]
func (h *CustomerHTTPHandler) ExportCSV(c echo.Context) error {
	var q listQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&q); err != nil {
		return err
	}

	data, err := h.customerSvc.ExportCSV(c.Request().Context(), q.filter())
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("customers-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "text/csv", data)
}

// Badge renders the membership badge QR code
// @Summary     Membership badge
// @Description Returns a QR code PNG encoding the customer badge payload
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     png
// @Param       id     path string true "Customer id"
// @Success     200    "PNG image"
// @Failure     404    {object} echo.HTTPError
// @Router      /api/v1/customers/{id}/badge [get]
func (h *CustomerHTTPHandler) Badge(c echo.Context) error {
	customer, err := h.customerSvc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	payload, err := json.Marshal(&badgePayload{
		CustomerID: customer.ID,
		Name:       customer.Name,
		Email:      customer.Email,
	})
	if err != nil {
		return err
	}

	code, err := qr.Encode(string(payload), qr.H, qr.Auto)
	if err != nil {
		return err
	}

	code, err = barcode.Scale(code, badgeImageSize, badgeImageSize)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
