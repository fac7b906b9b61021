package ingest

// PostalAddress is the nested address block in the Angi webhook body.
type PostalAddress struct {
	AddressFirstLine  string `json:"AddressFirstLine"`
	AddressSecondLine string `json:"AddressSecondLine"`
	City              string `json:"City"`
	State             string `json:"State"`
	PostalCode        string `json:"PostalCode"`
}

// LeadPayload is the Angi lead webhook JSON body. Field names follow the
// provider's PascalCase wire format. Only CorrelationId is required.
type LeadPayload struct {
	CorrelationID string         `json:"CorrelationId"`
	ALAccountID   string         `json:"ALAccountId"`
	Email         string         `json:"Email"`
	PhoneNumber   string         `json:"PhoneNumber"`
	FirstName     string         `json:"FirstName"`
	LastName      string         `json:"LastName"`
	Description   string         `json:"Description"`
	Category      string         `json:"Category"`
	Urgency       string         `json:"Urgency"`
	PostalAddress *PostalAddress `json:"PostalAddress"`
}
