package models

// PaymentRequirement is what a resource server demands before granting access.
// Amount is an unsigned integer string denominated in the asset's base units.
type PaymentRequirement struct {
	Scheme    string `json:"scheme"`
	Network   string `json:"network"`
	Recipient string `json:"payTo"`
	Amount    string `json:"amount"`
	Asset     string `json:"asset,omitempty"`
}

// PaymentClaim is a payer's assertion that an already-submitted on-chain
// transaction satisfies a requirement.
type PaymentClaim struct {
	TransactionID string `json:"transactionHash"`
	Sender        string `json:"sender"`
	BlockID       string `json:"blockHash,omitempty"`
}
