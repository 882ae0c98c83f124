/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
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

package pagination

import (
	"net/http"
	"strconv"

	"github.com/wso2/user-profile-service/internal/system/constants"
	errors2 "github.com/wso2/user-profile-service/internal/system/errors"
)

// Page is an offset window over a listing. Range checks are left to the service.
type Page struct {
	Skip  int
	Limit int
}

// ParsePage reads skip and limit from the query string. Absent values take the
// listing defaults; non-integer values are rejected.
func ParsePage(r *http.Request) (Page, error) {

	skip, err := intParam(r, "skip", constants.DefaultListSkip)
	if err != nil {
		return Page{}, err
	}
	limit, err := intParam(r, "limit", constants.DefaultListLimit)
	if err != nil {
		return Page{}, err
	}
	return Page{Skip: skip, Limit: limit}, nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {

	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors2.NewClientErrorWithDescription(errors2.INVALID_PAGINATION,
			"Query parameter '"+name+"' must be an integer.", http.StatusBadRequest)
	}
	return v, nil
}
