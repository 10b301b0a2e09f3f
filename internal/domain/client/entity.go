package client

import "time"

type Client struct {
	ID        string
	FirmID    string
	Name      string
	Email     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
