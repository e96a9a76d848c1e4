package pinelabs

// Detail is one Pine Labs terminal row persisted under a finance mapping.
// ID == 0 means the row has not been assigned a server id yet.
type Detail struct {
	ID        int    `json:"id"`
	MappingID int    `json:"mapping_id"`
	UserID    int    `json:"user_id,omitempty"`
	PosID     string `json:"pos_id"`
	TID       string `json:"tid"`
	SerialNo  string `json:"serial_no"`
	StoreID   string `json:"store_id"`
}

// Meaningful reports whether the row carries any data at all. Rows with
// every field empty are never persisted.
func (d Detail) Meaningful() bool {
	return d.PosID != "" || d.TID != "" || d.SerialNo != "" || d.StoreID != ""
}

// FieldsEqual compares the four terminal fields with strict equality.
func (d Detail) FieldsEqual(o Detail) bool {
	return d.PosID == o.PosID &&
		d.TID == o.TID &&
		d.SerialNo == o.SerialNo &&
		d.StoreID == o.StoreID
}

// Entry is one row of the client's edit buffer for a mapping: either an
// already persisted detail (ID > 0) or a freshly drafted one (ID == 0).
type Entry struct {
	ID       int    `json:"id,omitempty"`
	PosID    string `json:"pos_id"`
	TID      string `json:"tid"`
	SerialNo string `json:"serial_no"`
	StoreID  string `json:"store_id"`
}

func (e Entry) detail() Detail {
	return Detail{
		ID:       e.ID,
		PosID:    e.PosID,
		TID:      e.TID,
		SerialNo: e.SerialNo,
		StoreID:  e.StoreID,
	}
}

// Row is a detail enriched with denormalized mapping fields for display.
type Row struct {
	Detail
	StoreName string `json:"store_name,omitempty"`
	Brand     string `json:"brand,omitempty"`
}
