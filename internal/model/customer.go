package model

import "time"

// Customer is a club member record. VerifiedAt is set exactly when
// Verified is true and cleared on revoke.
type Customer struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	Name       string     `json:"name" bson:"name"`
	Email      string     `json:"email" bson:"email"`
	Phone      *string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	Verified   bool       `json:"verified" bson:"verified"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
	Notes      *string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

// NewCustomer is the payload for owner-initiated customer creation
type NewCustomer struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// CustomerFilter describes directory list parameters
type CustomerFilter struct {
	Query    string
	Verified *bool
	Page     int
	PageSize int
}

// Normalized returns a copy with page defaults applied
func (f CustomerFilter) Normalized() CustomerFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	return f
}

// CustomerPage is a single directory page. Total counts all records
// matching the filter, not only those on the page.
type CustomerPage struct {
	Data     []*Customer `json:"data"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}
