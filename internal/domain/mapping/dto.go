package mapping

type Item struct {
	ID        int    `json:"id"`
	StoreName string `json:"store_name"`
	Brand     string `json:"brand"`
	Financier string `json:"financier"`
	StoreCode string `json:"store_code,omitempty"`
	MID       string `json:"mid,omitempty"`
	Requester string `json:"requester,omitempty"`
}

type ListResponse struct {
	Mappings []Item `json:"mappings"`
	Total    int    `json:"total"`
}
