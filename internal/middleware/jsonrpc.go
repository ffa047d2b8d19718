package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
)

// JSON-RPC 2.0 error codes.
const (
	rpcMethodNotFound = -32601
	rpcInvalidParams  = -32602
	rpcServerError    = -32000
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// JSONRPCMiddleware adds JSON-RPC 2.0 invocation support. A POST body of the
// form {"jsonrpc":"2.0","method":...,"params":...,"id":...} is re-dispatched
// as a plain POST of params to the route named by method ("align" designates
// the root alignment route), and the reply is wrapped in a JSON-RPC
// envelope. All other requests pass through untouched.
func JSONRPCMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		r.Body.Close()
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		var rpc rpcRequest
		if json.Unmarshal(body, &rpc) != nil || rpc.JSONRPC != "2.0" || rpc.Method == "" {
			// Not a JSON-RPC envelope; hand the body back untouched.
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
			return
		}

		path := "/" + strings.TrimPrefix(rpc.Method, "/")
		if rpc.Method == "align" {
			path = "/"
		}

		params := rpc.Params
		if len(params) == 0 {
			params = json.RawMessage("{}")
		}

		inner, err := http.NewRequestWithContext(r.Context(), http.MethodPost, path, bytes.NewReader(params))
		if err != nil {
			writeRPCError(w, rpc.ID, rpcServerError, "failed to dispatch method")
			return
		}
		inner.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		next.ServeHTTP(rec, inner)

		if rec.Code >= 400 {
			code := rpcServerError
			switch rec.Code {
			case http.StatusNotFound, http.StatusMethodNotAllowed:
				code = rpcMethodNotFound
			case http.StatusBadRequest, http.StatusUnprocessableEntity:
				code = rpcInvalidParams
			}
			writeRPCError(w, rpc.ID, code, rpcErrorMessage(rec.Body.Bytes(), rec.Code))
			return
		}

		result := json.RawMessage(rec.Body.Bytes())
		if len(bytes.TrimSpace(result)) == 0 {
			result = json.RawMessage("null")
		}
		writeJSON(w, rpcResponse{JSONRPC: "2.0", Result: result, ID: rpc.ID})
	})
}

func rpcErrorMessage(body []byte, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return http.StatusText(status)
}

func writeRPCError(w http.ResponseWriter, id json.RawMessage, code int, msg string) {
	writeJSON(w, rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: code, Message: msg}, ID: id})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
