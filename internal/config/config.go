// Package config provides a struct to store the application's configuration
package config

import (
	"time"

	"go.infratographer.com/x/loggingx"
)

// APIConfig stores the configuration for the Linode API client
type APIConfig struct {
	Key     string
	URL     string
	Timeout time.Duration
	Retries int
}

// DataplaneConfig stores the configuration for an HAProxy Data Plane API
type DataplaneConfig struct {
	URL  string
	User struct {
		Name string
		Pwd  string
	}
}

// AppConfig is populated from flags, environment and config file by the cli
var AppConfig struct {
	API       APIConfig
	Dataplane DataplaneConfig
	Logging   loggingx.Config
	Output    string
}
