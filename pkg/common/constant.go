package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyIOTLogDir string = "IOT_LOG_DIR"

	EnvKeyIOTDBType      string = "IOT_DB_TYPE"
	EnvKeyIOTDbPath      string = "IOT_DB_PATH"
	EnvKeyIOTPostgresURL string = "IOT_POSTGRES_URL"

	EnvKeyIOTMqttBroker   string = "IOT_MQTT_BROKER"
	EnvKeyIOTMqttClientID string = "IOT_MQTT_CLIENT_ID"
	EnvKeyIOTMqttTopic    string = "IOT_MQTT_TOPIC"
	EnvKeyIOTMqttQoS      string = "IOT_MQTT_QOS"

	EnvKeyIOTHttpHostPort string = "IOT_HTTP_HOST_PORT"
	EnvKeyIOTGrpcHostPort string = "IOT_GRPC_HOST_PORT"

	EnvKeyIOTRedisAddr string = "IOT_REDIS_ADDR"
	EnvKeyIOTLatestTTL string = "IOT_LATEST_TTL"

	EnvKeyIOTDefaultRate  string = "IOT_DEFAULT_RATE"
	EnvKeyIOTDefaultBurst string = "IOT_DEFAULT_BURST"

	DBTypeFile     string = "file"
	DBTypeMemory   string = "memory"
	DBTypePostgres string = "postgres"

	DefaultReadoutLimit int = 100
	MaxReadoutLimit     int = 1000

	LoggerNameIOTCore       string = "iot_core"
	LoggerNameStorage       string = "storage"
	LoggerNameIngest        string = "ingest"
	LoggerNameSubscriber    string = "subscriber"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameCache         string = "cache"

	LoggerFieldIOTCategory       string = "category"
	LoggerCategoryIOTDevice      string = "device"
	LoggerCategoryIOTMeasurement string = "measurement"
	LoggerCategoryIOTReadout     string = "readout"
)
