/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	traceCtx "github.com/wso2/user-profile-service/internal/system/context"
	customerrors "github.com/wso2/user-profile-service/internal/system/errors"
	"github.com/wso2/user-profile-service/internal/system/log"
)

// HandleError sends an HTTP error response based on the provided error. Client errors
// carry their description; anything else is logged and answered with a generic 500.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {

	traceID := traceCtx.GetTraceID(r.Context())

	var clientError *customerrors.ClientError
	if errors.As(err, &clientError) {
		body := clientError.ErrorMessage
		body.TraceID = traceID
		WriteJSON(w, clientError.StatusCode, body)
		return
	}

	logger := log.GetLogger()
	message := customerrors.INTERNAL_SERVER_ERROR
	var serverError *customerrors.ServerError
	if errors.As(err, &serverError) {
		message = serverError.ErrorMessage
	}
	logger.Error("Request failed", log.String("method", r.Method), log.String("path", r.URL.Path),
		log.String("traceId", traceID), log.Error(err))

	WriteJSON(w, http.StatusInternalServerError, customerrors.ErrorMessage{
		Code:    message.Code,
		Message: message.Message,
		TraceID: traceID,
	})
}

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
