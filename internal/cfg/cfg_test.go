package cfg

import (
	"testing"
	"time"

	"github.com/DRSN-tech/products-api/pkg/logger"
	"github.com/stretchr/testify/require"
)

func setRequiredPGEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "products")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "catalog")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredPGEnv(t)
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load(logger.NewSlogLogger())
	require.NoError(t, err)

	require.Equal(t, "localhost", cfg.Db.Host)
	require.Equal(t, "5432", cfg.Db.Port)
	require.Equal(t, "disable", cfg.Db.SSLMode)
	require.Equal(t, "catalog", cfg.Db.DBName)

	require.Equal(t, "8080", cfg.Http.Port)
	require.Equal(t, 5*time.Second, cfg.Http.ReadTimeout)
	require.Equal(t, 10*time.Second, cfg.Http.WriteTimeout)
	require.Equal(t, 60*time.Second, cfg.Http.IdleTimeout)

	// Без адресов оба опциональных контура выключены.
	require.False(t, cfg.Redis.Enabled)
	require.False(t, cfg.Kafka.Enabled)
}

func TestLoad_MissingRequiredPostgresVars(t *testing.T) {
	cases := []string{"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB"}

	for _, missing := range cases {
		t.Run(missing, func(t *testing.T) {
			setRequiredPGEnv(t)
			t.Setenv(missing, "")

			_, err := Load(logger.NewSlogLogger())
			require.Error(t, err)
		})
	}
}

func TestLoad_RedisEnabledByAddr(t *testing.T) {
	setRequiredPGEnv(t)
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("PRODUCT_TTL", "1m")

	cfg, err := Load(logger.NewSlogLogger())
	require.NoError(t, err)

	require.True(t, cfg.Redis.Enabled)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, time.Minute, cfg.Redis.ProductTTL)
	require.Equal(t, 3, cfg.Redis.MaxRetries)
}

func TestLoad_KafkaEnabledByBrokers(t *testing.T) {
	setRequiredPGEnv(t)
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load(logger.NewSlogLogger())
	require.NoError(t, err)

	require.True(t, cfg.Kafka.Enabled)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "product-events", cfg.Kafka.Topic)
	require.Equal(t, 3, cfg.Kafka.Partitions)
	require.Equal(t, 1, cfg.Kafka.ReplicationFactor)
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredPGEnv(t)
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	_, err := Load(logger.NewSlogLogger())
	require.Error(t, err)
}

func TestLoad_InvalidKafkaPartitions(t *testing.T) {
	setRequiredPGEnv(t)
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_PARTITIONS", "three")

	_, err := Load(logger.NewSlogLogger())
	require.Error(t, err)
}
