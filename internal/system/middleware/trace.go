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

package middleware

import (
	"net/http"
	"strings"

	"github.com/wso2/user-profile-service/internal/system/constants"
	traceCtx "github.com/wso2/user-profile-service/internal/system/context"
)

// TraceID propagates the X-Trace-Id header, generating one when absent, and echoes it
// on the response.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := strings.TrimSpace(r.Header.Get(constants.TraceIDHeader))
		if traceID == "" {
			traceID = traceCtx.GenerateTraceID()
		}
		w.Header().Set(constants.TraceIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(traceCtx.WithTraceID(r.Context(), traceID)))
	})
}
