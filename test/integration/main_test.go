//go:build integration

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

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/wso2/user-profile-service/internal/system/config"
	"github.com/wso2/user-profile-service/internal/system/log"
	"github.com/wso2/user-profile-service/test/setup"
)

const testDatabase = "user_profiles_it"

var (
	testMongo *setup.TestMongo
	testNATS  *setup.TestNATS
	testRedis *setup.TestRedis
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	conf := config.Config{
		Log: config.LogConfig{
			LogLevel: "DEBUG",
		},
	}
	config.OverrideRuntime(conf)
	_ = log.Init("DEBUG")

	var err error
	testMongo, err = setup.SetupTestMongo(ctx)
	if err != nil {
		fmt.Println("Failed to start test MongoDB:", err)
		os.Exit(1)
	}
	testNATS, err = setup.SetupTestNATS(ctx)
	if err != nil {
		fmt.Println("Failed to start test NATS:", err)
		testMongo.Terminate(ctx)
		os.Exit(1)
	}
	testRedis, err = setup.SetupTestRedis(ctx)
	if err != nil {
		fmt.Println("Failed to start test Redis:", err)
		testNATS.Terminate(ctx)
		testMongo.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testRedis.Terminate(ctx)
	testNATS.Terminate(ctx)
	testMongo.Terminate(ctx)

	os.Exit(code)
}

// brokerConfig returns a broker configuration with a consumer name unique to the caller.
func brokerConfig(consumer string) config.BrokerConfig {
	return config.BrokerConfig{
		URL:            testNATS.URL,
		Stream:         "MICROSERVICES_EVENTS",
		Subjects:       []string{"user.>", "profile.>"},
		ConsumerName:   consumer,
		FilterSubjects: []string{"user.*", "profile.*"},
		ReconnectWait:  500 * time.Millisecond,
		PublishTimeout: 2 * time.Second,
		FetchWait:      500 * time.Millisecond,
		PublishPolicy:  config.PublishPolicyBestEffort,
	}
}
