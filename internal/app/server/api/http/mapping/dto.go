package mapping

import (
	"finmap/internal/domain/mapping"
)

type listInput struct {
	Term   string `query:"term" doc:"Free-text filter over store name, brand, financier and store code"`
	Brand  string `query:"brand" doc:"Exact brand filter"`
	Limit  int    `query:"limit" minimum:"0" doc:"Page size, 0 means no paging"`
	Offset int    `query:"offset" minimum:"0" doc:"Page offset"`
	All    bool   `query:"all" doc:"Admin only: list every user's mappings"`
}

type listOutput struct {
	Body mapping.ListResponse
}

type searchOutput struct {
	Body searchResponse
}

type searchResponse struct {
	Mappings []mapping.Mapping `json:"mappings"`
	Total    int               `json:"total"`
}

type getInput struct {
	ID int `path:"id" example:"1" doc:"Mapping id"`
}

type getOutput struct {
	Body mapping.Mapping
}

type createInput struct {
	Body request
}

type updateInput struct {
	ID   int `path:"id" example:"1" doc:"Mapping id"`
	Body request
}

type deleteInput struct {
	ID int `path:"id" example:"1" doc:"Mapping id"`
}

type request struct {
	StoreName string `json:"store_name" minLength:"1" doc:"Store name"`
	Brand     string `json:"brand" minLength:"1" doc:"Brand"`
	Financier string `json:"financier,omitempty" doc:"Financier"`
	StoreCode string `json:"store_code,omitempty" doc:"Store code"`
	MID       string `json:"mid,omitempty" doc:"Merchant id"`
	Requester string `json:"requester,omitempty" doc:"Requester"`
}

type output struct {
	Body response
}

type response struct {
	ID     int    `json:"id,omitempty"`
	Status string `json:"status"`
}
