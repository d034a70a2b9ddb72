package repository

import (
	"time"

	"github.com/15palle/membership/internal/model"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// SeedCustomers is the fixed record set installed when the store is empty:
// six members, two of them already verified
func SeedCustomers() []*model.Customer {
	return []*model.Customer{
		{
			ID:         "cust-001",
			Name:       "Marco Rossi",
			Email:      "marco.rossi@example.com",
			Phone:      strPtr("+39 06 1234 5678"),
			CreatedAt:  utc(2025, time.January, 15, 10, 30),
			Verified:   true,
			VerifiedAt: timePtr(utc(2025, time.January, 16, 14, 20)),
			Notes:      strPtr("Regular player, prefers table 3"),
		},
		{
			ID:         "cust-002",
			Name:       "Giulia Bianchi",
			Email:      "giulia.bianchi@example.com",
			Phone:      strPtr("+39 06 2345 6789"),
			CreatedAt:  utc(2025, time.January, 20, 15, 45),
			Verified:   true,
			VerifiedAt: timePtr(utc(2025, time.January, 21, 9, 10)),
			Notes:      strPtr("Tournament player"),
		},
		{
			ID:        "cust-003",
			Name:      "Luca Ferrari",
			Email:     "luca.ferrari@example.com",
			Phone:     strPtr("+39 06 3456 7890"),
			CreatedAt: utc(2025, time.February, 1, 11, 20),
			Notes:     strPtr("New member"),
		},
		{
			ID:        "cust-004",
			Name:      "Sofia Romano",
			Email:     "sofia.romano@example.com",
			Phone:     strPtr("+39 06 4567 8901"),
			CreatedAt: utc(2025, time.February, 5, 16, 30),
		},
		{
			ID:        "cust-005",
			Name:      "Alessandro Conti",
			Email:     "alessandro.conti@example.com",
			Phone:     strPtr("+39 06 5678 9012"),
			CreatedAt: utc(2025, time.February, 10, 13, 15),
			Notes:     strPtr("Interested in lessons"),
		},
		{
			ID:        "cust-006",
			Name:      "Francesca Marino",
			Email:     "francesca.marino@example.com",
			Phone:     strPtr("+39 06 6789 0123"),
			CreatedAt: utc(2025, time.February, 12, 10, 0),
		},
	}
}
