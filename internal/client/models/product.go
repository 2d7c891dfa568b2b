// Package models defines the client-side data model: products as returned by
// the storefront REST backend, user/profile records from the identity and
// user endpoints, and the view-derived seller info assembled for the product
// detail screen.
package models

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// FlexString decodes a JSON value that may arrive as either a string or a
// number. The backend serializes decimal prices as strings and identifiers
// as numbers or strings depending on the resource.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f FlexString) String() string { return string(f) }

// Product is a catalog entry. Beyond the core fields it carries the
// denormalized seller attribution the backend may or may not populate;
// the seller fallback chains in seller.go consume those.
type Product struct {
	ID          FlexString `json:"id"`
	Name        string     `json:"name"`
	Price       FlexString `json:"price"`
	Description string     `json:"description"`
	Image       string     `json:"image,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`

	Seller            FlexString `json:"seller,omitempty"`
	SellerName        string     `json:"seller_name,omitempty"`
	CreatedBy         string     `json:"created_by,omitempty"`
	SellerDisplayName string     `json:"seller_display_name,omitempty"`
	SellerEmail       string     `json:"seller_email,omitempty"`
	SellerContactMail string     `json:"seller_contact_email,omitempty"`
	SellerPhone       string     `json:"seller_phone,omitempty"`
	SellerContactTel  string     `json:"seller_contact_phone,omitempty"`
	SellerLocation    string     `json:"seller_location,omitempty"`
	SellerAddress     string     `json:"seller_address,omitempty"`
	Location          string     `json:"location,omitempty"`
	SellerBio         string     `json:"seller_bio,omitempty"`
	SellerRating      FlexString `json:"seller_rating,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
}

// BestImageURL prefers the resolved absolute URL over the raw image field.
func (p Product) BestImageURL() string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	return p.Image
}

var priceRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ValidPrice reports whether s is a non-negative decimal currency value with
// at most two fractional digits.
func ValidPrice(s string) bool {
	if !priceRe.MatchString(s) {
		return false
	}
	// Belt and braces: the regexp already excludes signs and exponents.
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
