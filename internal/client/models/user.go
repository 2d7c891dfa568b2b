package models

// User is a user resource as served by the backend's /users/ endpoints.
// Sellers looked up for the product detail view arrive in this shape.
type User struct {
	ID          FlexString `json:"id"`
	Name        string     `json:"name,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Email       string     `json:"email,omitempty"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Location    string     `json:"location,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	Rating      FlexString `json:"rating,omitempty"`
}

// BestName resolves the user's display name across the two fields backends
// have been seen to use.
func (u User) BestName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.DisplayName
}

// ProfileExtras are the supplementary profile attributes the identity
// provider does not store. They live in local persistent storage keyed by the
// user identifier and are merged into the displayed profile at observation
// time.
type ProfileExtras struct {
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// Empty reports whether no supplement is set.
func (e ProfileExtras) Empty() bool {
	return e.Phone == "" && e.Location == "" && e.Bio == ""
}
