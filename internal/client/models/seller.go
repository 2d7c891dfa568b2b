package models

// Seller info is not a persisted entity: the detail view assembles it on
// demand, preferring a backend lookup by seller identifier and falling back
// through denormalized fields on the product record. The per-field precedence
// is kept as explicit extractor chains so it stays testable in isolation.

// Placeholder values used when nothing on the record resolves.
const (
	UnknownSeller        = "Unknown Seller"
	NoEmailAvailable     = "No email available"
	LocationNotSpecified = "Location not specified"
	NoRatingYet          = "No rating yet"
)

// SellerInfo carries raw resolved values; empty fields mean "not known".
// Rendering applies the placeholder constants, the contact affordance only
// ever sees raw values.
type SellerInfo struct {
	Name     string
	Email    string
	Phone    string
	Location string
	Bio      string
	Rating   string
}

type extractor func(Product) string

var (
	sellerNameChain = []extractor{
		func(p Product) string { return p.SellerName },
		func(p Product) string { return p.CreatedBy },
		func(p Product) string { return p.SellerDisplayName },
	}
	sellerEmailChain = []extractor{
		func(p Product) string { return p.SellerEmail },
		func(p Product) string { return p.SellerContactMail },
	}
	sellerPhoneChain = []extractor{
		func(p Product) string { return p.SellerPhone },
		func(p Product) string { return p.SellerContactTel },
	}
	sellerLocationChain = []extractor{
		func(p Product) string { return p.SellerLocation },
		func(p Product) string { return p.SellerAddress },
		func(p Product) string { return p.Location },
	}
	sellerBioChain = []extractor{
		func(p Product) string { return p.SellerBio },
	}
	sellerRatingChain = []extractor{
		func(p Product) string { return p.SellerRating.String() },
	}
)

func firstNonEmpty(p Product, chain []extractor) string {
	for _, fn := range chain {
		if v := fn(p); v != "" {
			return v
		}
	}
	return ""
}

// SellerFromProduct synthesizes seller info from the denormalized fields on
// the product record. Used when the product carries no seller identifier or
// the lookup failed.
func SellerFromProduct(p Product) SellerInfo {
	return SellerInfo{
		Name:     firstNonEmpty(p, sellerNameChain),
		Email:    firstNonEmpty(p, sellerEmailChain),
		Phone:    firstNonEmpty(p, sellerPhoneChain),
		Location: firstNonEmpty(p, sellerLocationChain),
		Bio:      firstNonEmpty(p, sellerBioChain),
		Rating:   firstNonEmpty(p, sellerRatingChain),
	}
}

// SellerFromUser builds seller info from a looked-up user record.
func SellerFromUser(u User) SellerInfo {
	return SellerInfo{
		Name:     u.BestName(),
		Email:    u.Email,
		Phone:    u.Phone,
		Location: u.Location,
		Bio:      u.Bio,
		Rating:   u.Rating.String(),
	}
}

// DisplayName and friends apply the fixed placeholders for rendering.

func (s SellerInfo) DisplayName() string {
	if s.Name == "" {
		return UnknownSeller
	}
	return s.Name
}

func (s SellerInfo) DisplayEmail() string {
	if s.Email == "" {
		return NoEmailAvailable
	}
	return s.Email
}

func (s SellerInfo) DisplayLocation() string {
	if s.Location == "" {
		return LocationNotSpecified
	}
	return s.Location
}

func (s SellerInfo) DisplayRating() string {
	if s.Rating == "" {
		return NoRatingYet
	}
	return s.Rating
}

// ContactMethod describes which contact affordance the detail view offers.
type ContactMethod int

const (
	ContactNone ContactMethod = iota
	ContactEmail
	ContactPhone
)

// Contact picks the contact method: email wins over phone, phone over
// nothing. The returned string is the address or number for the chosen
// method.
func (s SellerInfo) Contact() (ContactMethod, string) {
	if s.Email != "" {
		return ContactEmail, s.Email
	}
	if s.Phone != "" {
		return ContactPhone, s.Phone
	}
	return ContactNone, ""
}
