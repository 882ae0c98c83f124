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

package setup

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go/modules/nats"
)

// TestNATS holds a running NATS server with JetStream enabled.
type TestNATS struct {
	Container *nats.NATSContainer
	URL       string
}

// SetupTestNATS starts a NATS container. The module enables JetStream by default.
func SetupTestNATS(ctx context.Context) (*TestNATS, error) {

	container, err := nats.Run(ctx, "nats:2.10")
	if err != nil {
		return nil, fmt.Errorf("failed to start nats container: %w", err)
	}

	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &TestNATS{
		Container: container,
		URL:       url,
	}, nil
}

// Terminate stops the container.
func (n *TestNATS) Terminate(ctx context.Context) {
	_ = n.Container.Terminate(ctx)
}
