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

package authn

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wso2/user-profile-service/internal/system/config"
	errors2 "github.com/wso2/user-profile-service/internal/system/errors"
	"github.com/wso2/user-profile-service/internal/system/log"
)

const defaultAlgorithm = "HS256"

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	UserId   string
	Username string
	Roles    []string
}

// Claims are the token claims issued by the identity service.
type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HMAC signed JWTs with a shared secret.
type Authenticator struct {
	secret    []byte
	algorithm string
	issuer    string
}

// NewAuthenticator creates an Authenticator from the auth configuration. An empty
// issuer disables the issuer check.
func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	algorithm := strings.TrimSpace(cfg.JWTAlgorithm)
	if algorithm == "" {
		algorithm = defaultAlgorithm
	}
	return &Authenticator{
		secret:    []byte(cfg.JWTSecret),
		algorithm: algorithm,
		issuer:    strings.TrimSpace(cfg.JWTIssuer),
	}
}

// Authenticate validates token and returns its principal. Every failure yields the same
// unauthorized client error; the reason is only logged at debug level.
func (a *Authenticator) Authenticate(token string) (*Principal, error) {

	logger := log.GetLogger()
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{a.algorithm})}
	if a.issuer != "" {
		options = append(options, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, options...)
	if err != nil {
		logger.Debug("Rejected bearer token.", log.Error(err))
		return nil, unauthorizedError()
	}
	if strings.TrimSpace(claims.Subject) == "" {
		logger.Debug("Token does not have a subject claim.")
		return nil, unauthorizedError()
	}

	return &Principal{
		UserId:   claims.Subject,
		Username: claims.Username,
		Roles:    claims.Roles,
	}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < len("Bearer ") || !strings.EqualFold(authHeader[:len("Bearer ")], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authHeader[len("Bearer "):])
	return token, token != ""
}

func unauthorizedError() error {
	return errors2.NewClientError(errors2.UN_AUTHORIZED, http.StatusUnauthorized)
}
