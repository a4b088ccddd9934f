package models

// ListPaymentsResponse answers GET /api/payments.
type ListPaymentsResponse struct {
	Payments []PaymentView `json:"payments"`

	// Length is len(Payments), included so clients can validate the body
	// without counting.
	Length int `json:"length"`
}

// VersionResponse answers GET /api/version.
type VersionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}
