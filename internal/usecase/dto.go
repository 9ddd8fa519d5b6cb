package usecase

type ConvertLeadInput struct {
	DealName  string  `json:"dealName"`
	DealValue float64 `json:"dealValue"`
}

type ConvertLeadOutput struct {
	CustomerID int64 `json:"customerId"`
	DealID     int64 `json:"dealId"`
}

type QuoteLineItemInput struct {
	ProductID   int64   `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
}

type CreateQuoteInput struct {
	DealID     int64                `json:"deal_id"`
	CustomerID int64                `json:"customer_id"`
	Status     string               `json:"status"`
	Subtotal   float64              `json:"subtotal"`
	Tax        float64              `json:"tax"`
	Total      float64              `json:"total"`
	LineItems  []QuoteLineItemInput `json:"lineItems"`
}

type CreateQuoteOutput struct {
	ID  string `json:"id"`
	Msg string `json:"msg"`
}
