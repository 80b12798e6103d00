package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// DigestField names one slot of a canonical digest string.
type DigestField string

const (
	FieldSecret      DigestField = "salt"
	FieldStatus      DigestField = "status"
	FieldReserved    DigestField = ""
	FieldEmail       DigestField = "email"
	FieldFirstName   DigestField = "firstname"
	FieldProductInfo DigestField = "productinfo"
	FieldAmount      DigestField = "amount"
	FieldTxnID       DigestField = "txnid"
	FieldKey         DigestField = "key"
)

// reserved is the gateway's block of ten user-defined slots, always sent empty.
var reserved = []DigestField{
	FieldReserved, FieldReserved, FieldReserved, FieldReserved, FieldReserved,
	FieldReserved, FieldReserved, FieldReserved, FieldReserved, FieldReserved,
}

// ResponseDigestFieldsV1 is the gateway-mandated order for callback
// (reverse) digests: salt|status|udf10..udf1|email|firstname|productinfo|amount|txnid|key.
var ResponseDigestFieldsV1 = concat(
	[]DigestField{FieldSecret, FieldStatus},
	reserved,
	[]DigestField{FieldEmail, FieldFirstName, FieldProductInfo, FieldAmount, FieldTxnID, FieldKey},
)

// RequestDigestFieldsV1 is the order for payment request digests:
// key|txnid|amount|productinfo|firstname|email|udf1..udf10|salt.
var RequestDigestFieldsV1 = concat(
	[]DigestField{FieldKey, FieldTxnID, FieldAmount, FieldProductInfo, FieldFirstName, FieldEmail},
	reserved,
	[]DigestField{FieldSecret},
)

func concat(parts ...[]DigestField) []DigestField {
	var out []DigestField
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// DigestInput carries the values referenced by a field order.
type DigestInput struct {
	Secret      string
	Status      string
	Email       string
	FirstName   string
	ProductInfo string
	Amount      string
	TxnID       string
	Key         string
}

func (in DigestInput) value(f DigestField) string {
	switch f {
	case FieldSecret:
		return in.Secret
	case FieldStatus:
		return in.Status
	case FieldEmail:
		return in.Email
	case FieldFirstName:
		return in.FirstName
	case FieldProductInfo:
		return in.ProductInfo
	case FieldAmount:
		return in.Amount
	case FieldTxnID:
		return in.TxnID
	case FieldKey:
		return in.Key
	default:
		return ""
	}
}

// CanonicalString joins the input values in the given order with pipes.
func CanonicalString(order []DigestField, in DigestInput) string {
	vals := make([]string, len(order))
	for i, f := range order {
		vals[i] = in.value(f)
	}
	return strings.Join(vals, "|")
}

// ComputeDigest returns the lowercase hex SHA-512 of the canonical string.
func ComputeDigest(order []DigestField, in DigestInput) string {
	sum := sha512.Sum512([]byte(CanonicalString(order, in)))
	return hex.EncodeToString(sum[:])
}

// ComputeResponseDigest is the digest the gateway attaches to a callback.
func ComputeResponseDigest(secret string, cb Callback) string {
	return ComputeDigest(ResponseDigestFieldsV1, DigestInput{
		Secret:      secret,
		Status:      cb.RawStatus,
		Email:       cb.BuyerEmail,
		FirstName:   cb.BuyerName,
		ProductInfo: cb.ProductInfo,
		Amount:      cb.Amount,
		TxnID:       cb.TransactionID,
		Key:         cb.MerchantKey,
	})
}

// PaymentRequest is what the hosted checkout form posts to the gateway.
type PaymentRequest struct {
	TxnID       string
	Amount      string
	ProductInfo string
	FirstName   string
	Email       string
}

// ComputeRequestDigest signs a payment request for the hosted checkout.
func ComputeRequestDigest(secret, merchantKey string, req PaymentRequest) string {
	return ComputeDigest(RequestDigestFieldsV1, DigestInput{
		Secret:      secret,
		Email:       req.Email,
		FirstName:   req.FirstName,
		ProductInfo: req.ProductInfo,
		Amount:      req.Amount,
		TxnID:       req.TxnID,
		Key:         merchantKey,
	})
}

// DigestsEqual compares two hex digests in constant time, ignoring case.
// Surrounding whitespace is not stripped and makes the digests differ.
func DigestsEqual(expected, provided string) bool {
	a := strings.ToLower(expected)
	b := strings.ToLower(provided)
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
