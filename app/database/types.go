package database

import (
	"time"
)

type AlertThreshold struct {
	Base      string    `json:"base"`
	Target    string    `json:"target"`
	Threshold float64   `json:"threshold"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
