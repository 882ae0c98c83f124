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

package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/wso2/user-profile-service/internal/system/constants"
	"gopkg.in/yaml.v2"
)

// Publish policies accepted in broker.publish_policy.
const (
	PublishPolicyBestEffort = "best_effort"
	PublishPolicyRequired   = "required"
)

// LoadConfig reads the deployment file relative to home, expands ${ENV} references,
// applies defaults and validates the result.
func LoadConfig(home, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(home, filePath))
	if err != nil {
		return nil, err
	}
	return ParseConfig(file)
}

// ParseConfig parses raw YAML bytes into a validated Config.
func ParseConfig(raw []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(raw))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {

	if cfg.Addr.Host == "" {
		cfg.Addr.Host = "0.0.0.0"
	}
	if cfg.Addr.Port == 0 {
		cfg.Addr.Port = 8000
	}
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = "INFO"
	}
	if cfg.Service.Name == "" {
		cfg.Service.Name = "user-profile-service"
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "1.0.0"
	}
	if cfg.Auth.JWTAlgorithm == "" {
		cfg.Auth.JWTAlgorithm = "HS256"
	}
	if cfg.Mongo.Collection == "" {
		cfg.Mongo.Collection = constants.DefaultProfileCollection
	}
	if cfg.Mongo.Timeout == 0 {
		cfg.Mongo.Timeout = constants.DefaultMongoTimeout
	}
	if cfg.Broker.Stream == "" {
		cfg.Broker.Stream = constants.DefaultStreamName
	}
	if len(cfg.Broker.Subjects) == 0 {
		cfg.Broker.Subjects = []string{"user.>", "profile.>"}
	}
	if cfg.Broker.ConsumerName == "" {
		cfg.Broker.ConsumerName = constants.DefaultConsumerName
	}
	if len(cfg.Broker.FilterSubjects) == 0 {
		cfg.Broker.FilterSubjects = []string{"user.*", "profile.*"}
	}
	if cfg.Broker.ReconnectWait == 0 {
		cfg.Broker.ReconnectWait = constants.DefaultReconnectWait
	}
	if cfg.Broker.PublishTimeout == 0 {
		cfg.Broker.PublishTimeout = constants.DefaultPublishTimeout
	}
	if cfg.Broker.FetchWait == 0 {
		cfg.Broker.FetchWait = constants.DefaultFetchWait
	}
	if cfg.Broker.PublishPolicy == "" {
		cfg.Broker.PublishPolicy = PublishPolicyBestEffort
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = constants.DefaultCacheTTL
	}
}

func validate(cfg *Config) error {

	var missing []string
	if cfg.Mongo.URI == "" {
		missing = append(missing, "mongo.uri")
	}
	if cfg.Mongo.Database == "" {
		missing = append(missing, "mongo.database")
	}
	if cfg.Broker.URL == "" {
		missing = append(missing, "broker.url")
	}
	if cfg.Auth.JWTSecret == "" {
		missing = append(missing, "auth.jwt_secret")
	}
	if cfg.Cache.Enabled && cfg.Cache.Addr == "" {
		missing = append(missing, "cache.addr")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration values: %s", strings.Join(missing, ", "))
	}

	switch cfg.Broker.PublishPolicy {
	case PublishPolicyBestEffort, PublishPolicyRequired:
	default:
		return fmt.Errorf("unsupported broker.publish_policy %q", cfg.Broker.PublishPolicy)
	}
	return nil
}

// OverrideRuntime replaces the runtime configuration. Used by tests.
func OverrideRuntime(conf Config) {
	mu.Lock()
	defer mu.Unlock()
	runtimeConfig = &Runtime{
		Config: conf,
	}
}
