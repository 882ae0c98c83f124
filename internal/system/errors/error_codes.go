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

package errors

const errorPrefix = "UPS-"

var (
	// Server error codes

	ADD_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Profile addition failed.",
	}

	GET_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Fetching profile(s) failed.",
	}

	UPDATE_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Profile update failed.",
	}

	DELETE_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Profile deletion failed.",
	}

	PUBLISH_EVENT = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Publishing profile event failed.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while marshalling JSON.",
	}

	INTERNAL_SERVER_ERROR = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Internal server error.",
	}

	// Client error codes
	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthorized",
		Description: "Invalid authentication credentials.",
	}

	PROFILE_ALREADY_EXISTS = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Profile already exists.",
		Description: "A profile record already exists for the given user_id.",
	}

	PROFILE_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11004",
		Message:     "Profile not found.",
		Description: "No user profile record found for the given user_id.",
	}

	UPDATE_PROFILE_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "Profile not found.",
		Description: "Cannot update a profile that does not exist.",
	}

	INVALID_PAGINATION = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Invalid pagination parameters.",
	}

	RESOURCE_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Resource not found.",
	}
)
