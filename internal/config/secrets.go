package config

const redactedPlaceholder = "***"

// RedactedConfig returns a copy of cfg safe for logging: every credential
// field is masked and shared slices are duplicated so the copy cannot leak
// mutations back into the live configuration.
func RedactedConfig(cfg *Config) Config {
	out := *cfg

	for _, s := range []*string{
		&out.Binance.ApiKey, &out.Binance.ApiSecret, &out.Binance.SecretPassword,
		&out.Bybit.ApiKey, &out.Bybit.ApiSecret, &out.Bybit.SecretPassword,
		&out.Postgres.DSN, &out.Postgres.Password,
		&out.Redis.Password,
		&out.S3.AccessKey, &out.S3.SecretKey,
		&out.Server.APIKey,
		&out.Notify.TelegramToken, &out.Notify.DiscordWebhookURL,
	} {
		if *s != "" {
			*s = redactedPlaceholder
		}
	}

	if cfg.Notify.Events != nil {
		out.Notify.Events = append([]string(nil), cfg.Notify.Events...)
	}
	if cfg.Server.CORSOrigins != nil {
		out.Server.CORSOrigins = append([]string(nil), cfg.Server.CORSOrigins...)
	}

	return out
}
