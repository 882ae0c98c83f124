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
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/wso2/user-profile-service/internal/system/errors"
	"github.com/wso2/user-profile-service/internal/system/log"
	"github.com/wso2/user-profile-service/internal/system/utils"
)

// NewRecoveryMiddleware turns a handler panic into a 500 response.
func NewRecoveryMiddleware(logger *log.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered",
						log.Any("panic", rec),
						log.String("method", r.Method),
						log.String("path", r.URL.Path),
						log.String("stack", string(debug.Stack())),
					)
					utils.HandleError(w, r, errors.NewServerError(errors.INTERNAL_SERVER_ERROR,
						fmt.Errorf("panic: %v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
