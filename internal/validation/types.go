package validation

// SessionOrderForm is the urlencoded body of POST /create-order. Each checked
// product arrives as a repeated `products` field.
type SessionOrderForm struct {
	Products []string `form:"products" validate:"max=100,dive,max=64"`
}

// RemoteOrderForm is the urlencoded body of POST /app/create-order. Both
// fields carry JSON documents produced by the order page.
type RemoteOrderForm struct {
	SelectedProductIDs string `form:"selectedProductIds"` // JSON array of product IDs
	VariantMapping     string `form:"variantMapping"`     // JSON object product ID -> variant ID
}

// RemoteOrder is a decoded RemoteOrderForm.
type RemoteOrder struct {
	SelectedProductIDs []string          `json:"selectedProductIds" validate:"max=100,dive,max=255"`
	VariantMapping     map[string]string `json:"variantMapping" validate:"max=250,dive,keys,required,endkeys,required"`
}
