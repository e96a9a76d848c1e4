package mapping

import "time"

// Mapping is one finance mapping row: a store ↔ brand ↔ financier
// association owned by the user who created it. UserID never changes
// after creation.
type Mapping struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	StoreName string    `json:"store_name"`
	Brand     string    `json:"brand"`
	Financier string    `json:"financier"`
	StoreCode string    `json:"store_code,omitempty"`
	MID       string    `json:"mid,omitempty"`
	Requester string    `json:"requester,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchCriteria filters mapping listings.
type SearchCriteria struct {
	Term   string
	Brand  string
	Limit  int
	Offset int
}
