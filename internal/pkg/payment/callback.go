package payment

// Form field names posted by the gateway.
const (
	FormStatus           = "status"
	FormTxnID            = "txnid"
	FormAmount           = "amount"
	FormProductInfo      = "productinfo"
	FormFirstName        = "firstname"
	FormEmail            = "email"
	FormHash             = "hash"
	FormKey              = "key"
	FormGatewayPaymentID = "mihpayid"
)

var requiredFormFields = []string{
	FormStatus, FormTxnID, FormAmount, FormProductInfo,
	FormFirstName, FormEmail, FormHash, FormKey,
}

// ParseCallback builds a Callback from a decoded form body. Values are taken
// verbatim because the digest is computed over exactly what the gateway sent.
// Extra gateway fields are ignored.
func ParseCallback(form map[string]string) Callback {
	cb := Callback{
		TransactionID:    form[FormTxnID],
		RawStatus:        form[FormStatus],
		Status:           ParseStatus(form[FormStatus]),
		Amount:           form[FormAmount],
		ProductInfo:      form[FormProductInfo],
		BuyerName:        form[FormFirstName],
		BuyerEmail:       form[FormEmail],
		MerchantKey:      form[FormKey],
		ProvidedDigest:   form[FormHash],
		GatewayPaymentID: form[FormGatewayPaymentID],
	}
	for _, f := range requiredFormFields {
		if _, ok := form[f]; !ok {
			cb.Missing = append(cb.Missing, f)
		}
	}
	return cb
}

// IsMalformed reports whether required fields were absent.
func (cb Callback) IsMalformed() bool {
	return len(cb.Missing) > 0
}

// LogFields is the subset of a callback that is safe to log. The buyer email
// and digest are left out.
func (cb Callback) LogFields() map[string]any {
	return map[string]any{
		"txnid":    cb.TransactionID,
		"status":   cb.RawStatus,
		"amount":   cb.Amount,
		"mihpayid": cb.GatewayPaymentID,
	}
}
