package httpserver

import (
	"errors"
	"log"
	"net/http"

	customersvc "customer-map/internal/service/customer"
	"customer-map/internal/service/geocode"
	"github.com/gin-gonic/gin"
)

// geocodeHandler proxies an address lookup to the geocoding client and maps
// its outcomes: no match -> 404, upstream failure -> 500.
func geocodeHandler(geocoder customersvc.Geocoder, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		address := c.Query("address")
		if address == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Address is required"})
			return
		}

		result, err := geocoder.Resolve(c.Request.Context(), address)
		if err != nil {
			if errors.Is(err, geocode.ErrNoMatch) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Address not found"})
				return
			}
			logger.Printf("geocode %q: %v", address, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error geocoding address"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
