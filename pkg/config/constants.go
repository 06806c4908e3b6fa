package config

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv         = "TABLESERVE_APP_ENV"
	EnvPort           = "TABLESERVE_APP_PORT"
	EnvLogLevel       = "TABLESERVE_LOG_LEVEL"
	EnvDBDSN          = "TABLESERVE_DB_DSN"
	EnvDBHost         = "TABLESERVE_DB_HOST"
	EnvDBUser         = "TABLESERVE_DB_USER"
	EnvDBName         = "TABLESERVE_DB_NAME"
	EnvDBPassword     = "TABLESERVE_DB_PASSWORD"
	EnvRedisURL       = "TABLESERVE_REDIS_URL"
	EnvJWTSecret      = "TABLESERVE_JWT_SECRET"
	EnvJWTIssuer      = "TABLESERVE_JWT_ISSUER"
	EnvCartTTL        = "TABLESERVE_CART_TTL"
	EnvSubmitLockTTL  = "TABLESERVE_CART_SUBMIT_LOCK_TTL"
	EnvGCPProjectID   = "TABLESERVE_GCP_PROJECT_ID"
	EnvPubSubOrders   = "TABLESERVE_PUBSUB_ORDERS_TOPIC"
	EnvOutboxPollMS   = "TABLESERVE_OUTBOX_PUBLISH_POLL_MS"
	EnvAutoMigrate    = "TABLESERVE_AUTO_MIGRATE"
	EnvOutboxMaxTries = "TABLESERVE_OUTBOX_MAX_ATTEMPTS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
