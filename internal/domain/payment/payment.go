package payment

import "context"

// TransactionTypePayBill is the provider's transaction-type constant for
// push payment requests against a paybill short code.
const TransactionTypePayBill = "CustomerPayBillOnline"

// Payload is the exact wire form the provider expects on the push endpoint.
type Payload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// Result is the provider's synchronous acknowledgement of a push request.
// A non-"0" response code is a business-level rejection, not a transport
// failure; the caller branches on it.
type Result struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
}

// Accepted reports whether the provider accepted the request for processing.
// The end user still has to confirm on the handset before money moves.
func (r *Result) Accepted() bool { return r.ResponseCode == "0" }

// Pusher issues one push payment request to the provider. A single attempt
// per call: push requests are not idempotent on the provider's side.
type Pusher interface {
	Push(ctx context.Context, token string, p Payload) (*Result, error)
}
