package domain

import "strings"

// Customer is a managed customer record shown as a pin on the map.
//
// Lat and Lng are fixed-precision decimal strings (10 digits, 7 of them
// fractional) exactly as produced by geocoding. They are kept as strings
// to avoid float representation drift and are not range-validated.
type Customer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Street      string `json:"street"`
	Number      string `json:"number"`
	Phone       string `json:"phone"`
	Description string `json:"description,omitempty"`
	Lat         string `json:"lat"`
	Lng         string `json:"lng"`
}

// CustomerPatch carries a partial update. Nil fields are left unchanged.
// The record id is not patchable.
type CustomerPatch struct {
	Name        *string `json:"name,omitempty"`
	Street      *string `json:"street,omitempty"`
	Number      *string `json:"number,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Description *string `json:"description,omitempty"`
	Lat         *string `json:"lat,omitempty"`
	Lng         *string `json:"lng,omitempty"`
}

// Address returns the composed street address used for geocoding and search.
func (c Customer) Address() string {
	return c.Street + " " + c.Number
}

// Matches reports whether the record matches a free-text search query:
// case-insensitive substring against name, composed address and
// description, exact (case-sensitive) substring against phone. A record
// matches if any field matches.
func (c Customer) Matches(query string) bool {
	lower := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.Name), lower) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Address()), lower) {
		return true
	}
	if strings.Contains(c.Phone, query) {
		return true
	}
	return c.Description != "" && strings.Contains(strings.ToLower(c.Description), lower)
}

// Apply merges the patch over the record and returns the result.
func (c Customer) Apply(p CustomerPatch) Customer {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Street != nil {
		c.Street = *p.Street
	}
	if p.Number != nil {
		c.Number = *p.Number
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Lat != nil {
		c.Lat = *p.Lat
	}
	if p.Lng != nil {
		c.Lng = *p.Lng
	}
	return c
}
