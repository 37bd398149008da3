package rpc_types

// RpcError is the error half of an RPC response. ErrorString is the stable
// token clients match on; Message is for humans.
type RpcError struct {
	Code        int    `json:"error_code"`
	ErrorString string `json:"error"`
	Type        string `json:"type"`
	Message     string `json:"error_message,omitempty"`
}

func (e RpcError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorString
}

// Error codes. The JSON-RPC 2.0 range is used for protocol failures, small
// positive codes for request-level ones.
const (
	RpcMETHOD_NOT_FOUND = -32601
	RpcINVALID_PARAMS   = -32602
	RpcINTERNAL         = -32603
	RpcPARSE_ERROR      = -32700

	RpcMISSING_COMMAND  = 2
	RpcNOT_READY        = 13
	RpcACT_NOT_FOUND    = 19
	RpcTXN_NOT_FOUND    = 24
	RpcSTREAM_MALFORMED = 26
	RpcNOT_ENABLED      = 31
	RpcINVALID_HASH     = 44
	RpcBAD_SEED         = 45
	RpcACT_MALFORMED    = 50
	RpcOBJECT_NOT_FOUND = 92
)

var errorTokens = map[int]string{
	RpcMETHOD_NOT_FOUND: "unknownCmd",
	RpcINVALID_PARAMS:   "invalidParams",
	RpcINTERNAL:         "internal",
	RpcPARSE_ERROR:      "jsonInvalid",
	RpcMISSING_COMMAND:  "missingCommand",
	RpcNOT_READY:        "notReady",
	RpcACT_NOT_FOUND:    "actNotFound",
	RpcTXN_NOT_FOUND:    "txnNotFound",
	RpcSTREAM_MALFORMED: "streamMalformed",
	RpcNOT_ENABLED:      "notEnabled",
	RpcINVALID_HASH:     "invalidHash",
	RpcBAD_SEED:         "badSeed",
	RpcACT_MALFORMED:    "actMalformed",
	RpcOBJECT_NOT_FOUND: "objectNotFound",
}

func rpcError(code int, message string) *RpcError {
	token, ok := errorTokens[code]
	if !ok {
		token = "unknown"
	}
	return &RpcError{Code: code, ErrorString: token, Type: token, Message: message}
}

func RpcErrorInvalidParams(message string) *RpcError {
	return rpcError(RpcINVALID_PARAMS, message)
}

func RpcErrorMissingField(field string) *RpcError {
	return rpcError(RpcINVALID_PARAMS, "Missing field '"+field+"'.")
}

func RpcErrorInvalidField(field string) *RpcError {
	return rpcError(RpcINVALID_PARAMS, "Invalid field '"+field+"'.")
}

func RpcErrorJSONInvalid(message string) *RpcError {
	return rpcError(RpcPARSE_ERROR, message)
}

func RpcErrorMethodNotFound(method string) *RpcError {
	return rpcError(RpcMETHOD_NOT_FOUND, "Unknown method: "+method)
}

func RpcErrorMissingCommand() *RpcError {
	return rpcError(RpcMISSING_COMMAND, "Missing command field")
}

func RpcErrorInternal(message string) *RpcError {
	return rpcError(RpcINTERNAL, message)
}

// RpcErrorNotReady is returned while the ledger service is stopped.
func RpcErrorNotReady(message string) *RpcError {
	return rpcError(RpcNOT_READY, message)
}

func RpcErrorActNotFound(message string) *RpcError {
	return rpcError(RpcACT_NOT_FOUND, message)
}

func RpcErrorActMalformed(message string) *RpcError {
	return rpcError(RpcACT_MALFORMED, message)
}

func RpcErrorTxnNotFound(message string) *RpcError {
	return rpcError(RpcTXN_NOT_FOUND, message)
}

func RpcErrorStreamMalformed(message string) *RpcError {
	return rpcError(RpcSTREAM_MALFORMED, message)
}

// RpcErrorNotEnabled reports a feature switched off in configuration, such
// as history lookups without a history database.
func RpcErrorNotEnabled(feature string) *RpcError {
	return rpcError(RpcNOT_ENABLED, "Feature not enabled: "+feature)
}

func RpcErrorInvalidHash(message string) *RpcError {
	return rpcError(RpcINVALID_HASH, message)
}

func RpcErrorBadSeed(message string) *RpcError {
	return rpcError(RpcBAD_SEED, message)
}

// RpcErrorObjectNotFound is returned when no escrow record exists at an address
func RpcErrorObjectNotFound(message string) *RpcError {
	return rpcError(RpcOBJECT_NOT_FOUND, message)
}
