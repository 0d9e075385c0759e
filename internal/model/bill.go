package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Bill struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	Amount    float64    `json:"amount"`
	DueDate   Date       `json:"dueDate"`
	Category  string     `json:"category,omitempty"`
	Paid      bool       `json:"paid"`
	Notes     string     `json:"notes,omitempty"`
	Owner     *BillOwner `json:"owner,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// BillOwner is the public summary of a bill's owner attached to list results.
type BillOwner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// BillPatch holds the fields an update may change. Nil means unchanged.
// There is no owner field: ownership never changes after creation.
type BillPatch struct {
	Name     *string
	Amount   *float64
	DueDate  *time.Time
	Category *string
	Paid     *bool
	Notes    *string
}

type SortField string

const (
	SortByDueDate   SortField = "due_date"
	SortByAmount    SortField = "amount"
	SortByCreatedAt SortField = "created_at"
)

// BillFilter selects bills for a collection read. OwnerID is mandatory.
type BillFilter struct {
	OwnerID string
	SortBy  SortField
	Desc    bool
}

// Date accepts either a calendar date ("2025-01-01") or an RFC 3339
// timestamp and always marshals as RFC 3339 in UTC.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			d.Time = parsed.UTC()
			return nil
		}
	}

	return fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", raw)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}
