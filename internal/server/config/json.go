package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/sanitizer/internal/flagx"
	"github.com/dmitrijs2005/sanitizer/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration so
// both "1s" strings and integer nanoseconds are accepted. Pointer fields
// distinguish "absent" from a zero value.
type JsonConfig struct {
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	Storage                     *string         `json:"storage"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	SigningKeyPath              *string         `json:"signing_key_path"`

	ChunkSize            *int               `json:"chunk_size"`
	VerifySampleFraction *float64           `json:"verify_sample_fraction"`
	RetryAttempts        *int               `json:"retry_attempts"`
	RetryBackoff         *timex.Duration    `json:"retry_backoff"`
	JobMaxDuration       *timex.Duration    `json:"job_max_duration"`
	VerifyExceptions     map[string][]int64 `json:"verify_exceptions"`

	ArchiveCertificates *bool           `json:"archive_certificates"`
	S3RootUser          *string         `json:"s3_root_user"`
	S3RootPassword      *string         `json:"s3_root_password"`
	S3Bucket            *string         `json:"s3_bucket"`
	S3Region            *string         `json:"s3_region"`
	S3BaseEndpoint      *string         `json:"s3_base_endpoint"`
	S3URLExpiry         *timex.Duration `json:"s3_url_expiry"`

	BootstrapAdminUser   *string `json:"bootstrap_admin_user"`
	BootstrapAdminSecret *string `json:"bootstrap_admin_secret"`

	DeviceInventory *string `json:"device_inventory"`
	LogFormat       *string `json:"log_format"`
	LogLevel        *string `json:"log_level"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flag into config. Keys missing from the file leave the current
// value untouched. If the file cannot be read or contains invalid JSON, the
// function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	set(&config.Storage, c.Storage)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	set(&config.SigningKeyPath, c.SigningKeyPath)

	set(&config.ChunkSize, c.ChunkSize)
	set(&config.VerifySampleFraction, c.VerifySampleFraction)
	set(&config.RetryAttempts, c.RetryAttempts)
	setDuration(&config.RetryBackoff, c.RetryBackoff)
	setDuration(&config.JobMaxDuration, c.JobMaxDuration)
	if c.VerifyExceptions != nil {
		config.VerifyExceptions = c.VerifyExceptions
	}

	set(&config.ArchiveCertificates, c.ArchiveCertificates)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.S3URLExpiry, c.S3URLExpiry)

	set(&config.BootstrapAdminUser, c.BootstrapAdminUser)
	set(&config.BootstrapAdminSecret, c.BootstrapAdminSecret)

	set(&config.DeviceInventory, c.DeviceInventory)
	set(&config.LogFormat, c.LogFormat)
	set(&config.LogLevel, c.LogLevel)
}
