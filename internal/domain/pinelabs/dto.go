package pinelabs

// ReconcileResult summarizes one applied reconciliation.
type ReconcileResult struct {
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	Deleted  int      `json:"deleted"`
	Dropped  int      `json:"dropped"` // all-empty candidates silently skipped
	Rows     []Detail `json:"rows,omitempty"`
}

// NoOp reports whether the reconciliation changed nothing.
func (r ReconcileResult) NoOp() bool {
	return r.Inserted == 0 && r.Updated == 0 && r.Deleted == 0
}

type ListResponse struct {
	Details []Row `json:"details"`
	Total   int   `json:"total"`
}
