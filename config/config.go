/*
Copyright 2025 Carelane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5002"

	// DefaultPeriodLayout formats the period label on derived payout rows,
	// e.g. "February 2026".
	DefaultPeriodLayout = "January 2006"

	DefaultCurrency = "USD"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"LABOPS_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"LABOPS_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"LABOPS_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"LABOPS_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"LABOPS_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"LABOPS_SERVER_PORT"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"LABOPS_REDIS_DNS"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"LABOPS_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"LABOPS_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"LABOPS_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

// PayoutConfig tunes payout derivation output.
type PayoutConfig struct {
	PeriodLayout string `json:"period_layout" envconfig:"LABOPS_PAYOUT_PERIOD_LAYOUT"`
	Currency     string `json:"currency" envconfig:"LABOPS_PAYOUT_CURRENCY"`
}

type Configuration struct {
	ProjectName  string          `json:"project_name" envconfig:"LABOPS_PROJECT_NAME"`
	Server       ServerConfig    `json:"server"`
	Redis        RedisConfig     `json:"redis"`
	Notification Notification    `json:"notification"`
	RateLimit    RateLimitConfig `json:"rate_limit"`
	Payout       PayoutConfig    `json:"payout"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("labops", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called labops.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Labops Server"
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Payout.PeriodLayout == "" {
		cnf.Payout.PeriodLayout = DefaultPeriodLayout
	}
	if cnf.Payout.Currency == "" {
		cnf.Payout.Currency = DefaultCurrency
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	// Set default cleanup interval if not specified
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	if mockConfig.Payout.PeriodLayout == "" {
		mockConfig.Payout.PeriodLayout = DefaultPeriodLayout
	}
	if mockConfig.Payout.Currency == "" {
		mockConfig.Payout.Currency = DefaultCurrency
	}
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
