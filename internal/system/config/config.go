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

import "time"

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type AuthConfig struct {
	JWTSecret          string   `yaml:"jwt_secret"`
	JWTAlgorithm       string   `yaml:"jwt_algorithm"`
	JWTIssuer          string   `yaml:"jwt_issuer"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

type MongoConfig struct {
	URI        string        `yaml:"uri"`
	Database   string        `yaml:"database"`
	Collection string        `yaml:"collection"`
	Timeout    time.Duration `yaml:"timeout"`
}

type BrokerConfig struct {
	URL            string        `yaml:"url"`
	Stream         string        `yaml:"stream"`
	Subjects       []string      `yaml:"subjects"`
	ConsumerName   string        `yaml:"consumer_name"`
	FilterSubjects []string      `yaml:"filter_subjects"`
	ReconnectWait  time.Duration `yaml:"reconnect_wait"`
	PublishTimeout time.Duration `yaml:"publish_timeout"`
	FetchWait      time.Duration `yaml:"fetch_wait"`
	PublishPolicy  string        `yaml:"publish_policy"`
}

type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type Config struct {
	Addr    AddrConfig    `yaml:"addr"`
	Log     LogConfig     `yaml:"log"`
	Service ServiceConfig `yaml:"service"`
	Auth    AuthConfig    `yaml:"auth"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Broker  BrokerConfig  `yaml:"broker"`
	Cache   CacheConfig   `yaml:"cache"`
}
