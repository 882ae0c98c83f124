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

package security

import (
	"context"
	"net/http"

	"github.com/wso2/user-profile-service/internal/system/authn"
	"github.com/wso2/user-profile-service/internal/system/constants"
	"github.com/wso2/user-profile-service/internal/system/errors"
	"github.com/wso2/user-profile-service/internal/system/utils"
)

// TokenAuthenticator verifies a bearer token.
type TokenAuthenticator interface {
	Authenticate(token string) (*authn.Principal, error)
}

// RequireAuthentication rejects requests without a valid bearer token and stores the
// verified principal in the request context.
func RequireAuthentication(authenticator TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			token, ok := authn.BearerToken(r)
			if !ok {
				unauthorized(w, r, errors.NewClientError(errors.UN_AUTHORIZED, http.StatusUnauthorized))
				return
			}

			principal, err := authenticator.Authenticate(token)
			if err != nil {
				unauthorized(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	utils.HandleError(w, r, err)
}

// WithPrincipal returns a copy of ctx carrying principal.
func WithPrincipal(ctx context.Context, principal *authn.Principal) context.Context {
	return context.WithValue(ctx, constants.PrincipalContextKey, principal)
}

// PrincipalFromContext returns the principal stored by RequireAuthentication.
func PrincipalFromContext(ctx context.Context) (*authn.Principal, bool) {
	principal, ok := ctx.Value(constants.PrincipalContextKey).(*authn.Principal)
	return principal, ok && principal != nil
}
