package config

import (
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "SANITIZER"

// parseEnv overlays values from SANITIZER_* environment variables, e.g.
// SANITIZER_DATABASE_DSN or SANITIZER_RETRY_BACKOFF=250ms. Only variables
// that are actually set override the current value.
func parseEnv(config *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	applyEnv(v, config)
}

func applyEnv(v *viper.Viper, config *Config) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	str("endpoint_addr_grpc", &config.EndpointAddrGRPC)
	str("endpoint_addr_http", &config.EndpointAddrHTTP)
	str("storage", &config.Storage)
	str("database_dsn", &config.DatabaseDSN)
	str("secret_key", &config.SecretKey)
	str("signing_key_path", &config.SigningKeyPath)
	str("s3_root_user", &config.S3RootUser)
	str("s3_root_password", &config.S3RootPassword)
	str("s3_bucket", &config.S3Bucket)
	str("s3_region", &config.S3Region)
	str("s3_base_endpoint", &config.S3BaseEndpoint)
	str("bootstrap_admin_user", &config.BootstrapAdminUser)
	str("bootstrap_admin_secret", &config.BootstrapAdminSecret)
	str("device_inventory", &config.DeviceInventory)
	str("log_format", &config.LogFormat)
	str("log_level", &config.LogLevel)

	if v.IsSet("access_token_validity_duration") {
		config.AccessTokenValidityDuration = v.GetDuration("access_token_validity_duration")
	}
	if v.IsSet("retry_backoff") {
		config.RetryBackoff = v.GetDuration("retry_backoff")
	}
	if v.IsSet("job_max_duration") {
		config.JobMaxDuration = v.GetDuration("job_max_duration")
	}
	if v.IsSet("s3_url_expiry") {
		config.S3URLExpiry = v.GetDuration("s3_url_expiry")
	}
	if v.IsSet("chunk_size") {
		config.ChunkSize = v.GetInt("chunk_size")
	}
	if v.IsSet("retry_attempts") {
		config.RetryAttempts = v.GetInt("retry_attempts")
	}
	if v.IsSet("verify_sample_fraction") {
		config.VerifySampleFraction = v.GetFloat64("verify_sample_fraction")
	}
	if v.IsSet("archive_certificates") {
		config.ArchiveCertificates = v.GetBool("archive_certificates")
	}
}
