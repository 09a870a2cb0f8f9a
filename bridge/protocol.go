package bridge

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"

	"github.com/teami-app/teami-backend/errs"
)

// JSON-RPC version
const Version = "2.0"

const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
	ErrCodeNotFound       = -32004
	ErrCodeConstraint     = -32009
	ErrCodeLimitReached   = -32010
)

// Error kinds reported in ErrorObject.Data.
const (
	KindNotFound     = "not_found"
	KindValidation   = "validation"
	KindConstraint   = "constraint"
	KindLimitReached = "limit_reached"
	KindInternal     = "internal"
	KindProtocol     = "protocol"
)

// Request is one JSON-RPC 2.0 call. Params is the positional argument list of
// the desktop IPC call.
type Request struct {
	JSONRPC string
	ID      json.RawMessage
	Method  string
	Params  []gjson.Result

	notification bool
}

// Response is one JSON-RPC 2.0 reply.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

type ErrorObject struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Data    ErrorData `json:"data"`
}

type ErrorData struct {
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

var nullID = json.RawMessage("null")

// protocolError is a failure detected before a method runs.
type protocolError struct {
	code    int
	message string
}

func (e *protocolError) Error() string { return e.message }

// ParseRequest validates one line of input as a JSON-RPC 2.0 request.
// The returned request carries whatever id could be recovered even when err is set.
func ParseRequest(line []byte) (*Request, error) {
	if !gjson.ValidBytes(line) {
		return &Request{ID: nullID}, &protocolError{ErrCodeParseError, "Parse error"}
	}

	doc := gjson.ParseBytes(line)
	req := &Request{ID: nullID}
	if !doc.IsObject() {
		return req, &protocolError{ErrCodeInvalidRequest, "Invalid Request"}
	}

	id := doc.Get("id")
	if id.Exists() {
		if id.Type != gjson.String && id.Type != gjson.Number && id.Type != gjson.Null {
			return req, &protocolError{ErrCodeInvalidRequest, "Invalid Request: id must be a string or number"}
		}
		req.ID = json.RawMessage(id.Raw)
	}

	req.JSONRPC = doc.Get("jsonrpc").String()
	method := doc.Get("method")
	if req.JSONRPC != Version || method.Type != gjson.String || method.Str == "" {
		return req, &protocolError{ErrCodeInvalidRequest, "Invalid Request"}
	}
	req.Method = method.Str
	req.notification = !id.Exists()

	params := doc.Get("params")
	switch {
	case !params.Exists() || params.Type == gjson.Null:
	case params.IsArray():
		req.Params = params.Array()
	default:
		return req, &protocolError{ErrCodeInvalidRequest, "Invalid Request: params must be an array"}
	}
	return req, nil
}

// Param returns the i-th positional argument; a missing argument reads as non-existent.
func (r *Request) Param(i int) gjson.Result {
	if i < 0 || i >= len(r.Params) {
		return gjson.Result{}
	}
	return r.Params[i]
}

func successResponse(id json.RawMessage, result any) Response {
	return Response{JSONRPC: Version, ID: id, Result: result}
}

// errorResponse maps an error onto a JSON-RPC error object.
func errorResponse(id json.RawMessage, err error) Response {
	return Response{JSONRPC: Version, ID: id, Error: errorObject(err)}
}

func errorObject(err error) *ErrorObject {
	var perr *protocolError
	if errors.As(err, &perr) {
		return &ErrorObject{Code: perr.code, Message: perr.message, Data: ErrorData{Kind: KindProtocol}}
	}

	apiErr := errs.As(err)
	obj := &ErrorObject{Message: apiErr.Message(), Data: ErrorData{Field: apiErr.Field}}
	switch {
	case errs.IsNotFound(err):
		obj.Code, obj.Data.Kind = ErrCodeNotFound, KindNotFound
	case errs.IsValidation(err):
		obj.Code, obj.Data.Kind = ErrCodeInvalidParams, KindValidation
	case errs.IsConstraint(err):
		obj.Code, obj.Data.Kind = ErrCodeConstraint, KindConstraint
	case errs.IsLimitReached(err):
		obj.Code, obj.Data.Kind = ErrCodeLimitReached, KindLimitReached
	default:
		obj.Code, obj.Data.Kind = ErrCodeInternalError, KindInternal
		obj.Message = "Internal error"
		obj.Data.Field = ""
	}
	return obj
}
