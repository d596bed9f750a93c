package handlers

// RegistrationRequest is the inbound contract of POST /api/registrations.
type RegistrationRequest struct {
	ImageBase64   string `json:"image_base64"`
	Barcode       string `json:"barcode"`
	Name          string `json:"name,omitempty"`
	Brand         string `json:"brand,omitempty"`
	Model         string `json:"model,omitempty"`
	CategoryID    *int   `json:"category_id,omitempty"`
	Compatibility string `json:"compatibility,omitempty"`
	Notes         string `json:"notes,omitempty"`
	CapturedBy    string `json:"captured_by,omitempty"`
}

// RegistrationResponse is the success envelope of POST /api/registrations.
type RegistrationResponse struct {
	Status          string  `json:"status"`
	PredictedLabel  string  `json:"predicted_label"`
	ConfidenceScore float64 `json:"confidence_score"`
	ProductID       int     `json:"product_id"`
	StockQuantity   int     `json:"stock_quantity"`
	ImageURL        string  `json:"image_url"`
	Replayed        bool    `json:"replayed,omitempty"`
}

// ErrorResponse is the uniform error envelope: the client always gets
// structured JSON, never a bare stack trace.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResult struct {
	Token string `json:"token"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type MovementResponse struct {
	ID        int    `json:"id"`
	ProductID int    `json:"product_id"`
	Delta     int    `json:"delta"`
	CreatedAt string `json:"created_at"`
}

type MovementsSearchResult struct {
	Data []MovementResponse `json:"data"`
	Meta Meta               `json:"meta,omitempty"`
}

// ComponentStatus is one dependency's state on /readyz.
type ComponentStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type ReadinessResponse struct {
	Status     string            `json:"status"`
	Components []ComponentStatus `json:"components"`
}
