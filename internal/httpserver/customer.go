package httpserver

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"customer-map/internal/domain"
	customersvc "customer-map/internal/service/customer"
	"github.com/gin-gonic/gin"
)

type customerHandler struct {
	svc    *customersvc.Service
	logger *log.Logger
}

type createCustomerRequest struct {
	Name        string `json:"name" binding:"required"`
	Street      string `json:"street" binding:"required"`
	Number      string `json:"number" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Description string `json:"description"`
	Lat         string `json:"lat" binding:"required"`
	Lng         string `json:"lng" binding:"required"`
}

// updateCustomerRequest is the partial update shape: every field optional,
// but a present field must satisfy the same constraint as at creation.
// Gin's validator skips zero values under omitempty, so presence checks are
// done by hand in validate.
type updateCustomerRequest struct {
	Name        *string `json:"name"`
	Street      *string `json:"street"`
	Number      *string `json:"number"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
	Lat         *string `json:"lat"`
	Lng         *string `json:"lng"`
}

func (r updateCustomerRequest) validate() error {
	required := map[string]*string{
		"name":   r.Name,
		"street": r.Street,
		"number": r.Number,
		"phone":  r.Phone,
		"lat":    r.Lat,
		"lng":    r.Lng,
	}
	for field, value := range required {
		if value != nil && *value == "" {
			return fmt.Errorf("field %q must not be empty when present", field)
		}
	}
	return nil
}

// geocodedCreateRequest is the create shape minus coordinates; they come
// from geocoding street+number.
type geocodedCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Street      string `json:"street" binding:"required"`
	Number      string `json:"number" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Description string `json:"description"`
}

func (h *customerHandler) list(c *gin.Context) {
	customers, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, "Error fetching customers", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(customers))
}

func (h *customerHandler) search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Search query is required"})
		return
	}
	customers, err := h.svc.Search(c.Request.Context(), query)
	if err != nil {
		h.fail(c, "Error searching customers", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(customers))
}

func (h *customerHandler) get(c *gin.Context) {
	customer, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
			return
		}
		h.fail(c, "Error fetching customer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *customerHandler) create(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "errors": err.Error()})
		return
	}
	customer, err := h.svc.Create(c.Request.Context(), domain.Customer{
		Name:        req.Name,
		Street:      req.Street,
		Number:      req.Number,
		Phone:       req.Phone,
		Description: req.Description,
		Lat:         req.Lat,
		Lng:         req.Lng,
	})
	if err != nil {
		h.fail(c, "Error creating customer", err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *customerHandler) createGeocoded(c *gin.Context) {
	var req geocodedCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "errors": err.Error()})
		return
	}
	result := h.svc.AddWithGeocoding(c.Request.Context(), domain.Customer{
		Name:        req.Name,
		Street:      req.Street,
		Number:      req.Number,
		Phone:       req.Phone,
		Description: req.Description,
	})
	switch result.Outcome {
	case customersvc.AddCreated:
		c.JSON(http.StatusCreated, result.Customer)
	case customersvc.AddGeocodeFailed:
		if result.GeocodeFailedNoMatch() {
			c.JSON(http.StatusNotFound, gin.H{"message": "Address not found"})
			return
		}
		h.fail(c, "Error geocoding address", result.Err)
	default:
		h.fail(c, "Error creating customer", result.Err)
	}
}

func (h *customerHandler) update(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "errors": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "errors": err.Error()})
		return
	}
	customer, err := h.svc.Update(c.Request.Context(), c.Param("id"), domain.CustomerPatch{
		Name:        req.Name,
		Street:      req.Street,
		Number:      req.Number,
		Phone:       req.Phone,
		Description: req.Description,
		Lat:         req.Lat,
		Lng:         req.Lng,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
			return
		}
		h.fail(c, "Error updating customer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *customerHandler) remove(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Error deleting customer", err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *customerHandler) fail(c *gin.Context, message string, err error) {
	h.logger.Printf("%s: %v", message, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": message})
}

func nonNil(customers []domain.Customer) []domain.Customer {
	if customers == nil {
		return []domain.Customer{}
	}
	return customers
}
