package record

import "strings"

// columnSynonyms maps known header variants, including localized Korean
// headers, onto the canonical schema. Lookup is exact after whitespace
// trimming; anything unknown falls through to lower-case passthrough.
var columnSynonyms = map[string]string{
	// amount
	"AMOUNT":   FieldAmount,
	"TRAN_AMT": FieldAmount,
	"trans_amt": FieldAmount,
	"거래금액":  FieldAmount,
	"금액":     FieldAmount,
	"PRICE":    FieldAmount,
	"price":    FieldAmount,
	"COST":     FieldAmount,
	"cost":     FieldAmount,

	// timestamp
	"시간":       FieldTimestamp,
	"거래일시":   FieldTimestamp,
	"거래시간":   FieldTimestamp,
	"TRAN_TIME":  FieldTimestamp,
	"trans_time": FieldTimestamp,
	"DATE":       FieldTimestamp,
	"date":       FieldTimestamp,
	"TIME":       FieldTimestamp,
	"time":       FieldTimestamp,

	// user
	"USER_ID":     FieldUserID,
	"user_id":     FieldUserID,
	"고객ID":      FieldUserID,
	"고객_ID":     FieldUserID,
	"CUSTOMER_ID": FieldUserID,
	"customer_id": FieldUserID,
	"ACCOUNT_ID":  FieldUserID,
	"account_id":  FieldUserID,

	// merchant
	"MERCHANT_ID": FieldMerchantID,
	"merchant_id": FieldMerchantID,
	"상점ID":      FieldMerchantID,
	"STORE_ID":    FieldMerchantID,
	"store_id":    FieldMerchantID,

	// transaction type
	"TRAN_TYPE":        "transaction_type",
	"transaction_type": "transaction_type",
	"거래유형":         "transaction_type",
	"TYPE":             "transaction_type",
	"type":             "transaction_type",

	// channel
	"CHANNEL": "channel",
	"channel": "channel",
	"채널":    "channel",

	// status
	"STATUS":       FieldStatus,
	"status":       FieldStatus,
	"상태":         FieldStatus,
	"SUCCESS_FLAG": FieldStatus,
	"success_flag": FieldStatus,

	// ip address
	"IP_ADDRESS": FieldIPAddress,
	"ip_address": FieldIPAddress,
	"IP":         FieldIPAddress,
	"ip":         FieldIPAddress,

	// device
	"DEVICE_ID": "device_id",
	"device_id": "device_id",
	"기기ID":    "device_id",
}

// CanonicalKey maps a raw header to its canonical name. Unknown headers
// pass through lower-cased.
func CanonicalKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := columnSynonyms[trimmed]; ok {
		return canonical
	}
	return strings.ToLower(trimmed)
}

// Normalize rewrites every key of a record onto the canonical schema.
// Values are untouched. The operation is idempotent: canonical keys map
// to themselves.
func Normalize(r Record) Record {
	normalized := make(Record, len(r))
	for k, v := range r {
		normalized[CanonicalKey(k)] = v
	}
	return normalized
}

// NormalizeBatch normalizes each record of a batch into a new slice.
func NormalizeBatch(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Normalize(r)
	}
	return out
}
