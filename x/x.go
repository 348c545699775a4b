/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/golang/glog"
)

// Error constants representing different types of errors.
const (
	Success             = "Success"
	ErrorInvalidMethod  = "ErrorInvalidMethod"
	ErrorInvalidRequest = "ErrorInvalidRequest"
	Error               = "Error"
)

// Status is the body of non GraphQL replies.
type Status struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SetStatus writes a Status body with the given code and message.
func SetStatus(w http.ResponseWriter, code, msg string) {
	r := &Status{Code: code, Message: msg}
	js, err := json.Marshal(r)
	if err != nil {
		panic(fmt.Sprintf("Unable to marshal: %+v", r))
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(js); err != nil {
		glog.Errorf("Error while writing status: %v", err)
	}
}

// SetHttpStatus is SetStatus with an explicit HTTP status code.
func SetHttpStatus(w http.ResponseWriter, httpCode int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	SetStatus(w, code, msg)
}

// AddCorsHeaders lets browsers on any origin query the server.
func AddCorsHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers",
		"Content-Type, Content-Length, Accept-Encoding, Content-Encoding")
	w.Header().Set("Access-Control-Allow-Credentials", "true")
	w.Header().Set("Connection", "close")
}

// HealthCheck answers GET requests with OK.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		SetHttpStatus(w, http.StatusMethodNotAllowed, ErrorInvalidMethod,
			"Invalid method: "+r.Method)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("OK")); err != nil {
		glog.Errorf("Error while writing health status: %v", err)
	}
}
