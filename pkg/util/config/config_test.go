package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInConfig(t *testing.T) {
	defer Reset()
	SetConfigFile("testdata/config.json")
	require.NoError(t, ReadInConfig())

	assert.Equal(t, "rabbitmq", Get("broker.type"))
	assert.Equal(t, "http://localhost:9090/results", Get("report.url"))
	assert.Nil(t, Get("broker.missing"))
	assert.Nil(t, Get("missing.key"))
}

func TestReadInConfigNoFile(t *testing.T) {
	defer Reset()
	assert.NoError(t, ReadInConfig())
}

func TestReadInConfigMissingFile(t *testing.T) {
	defer Reset()
	SetConfigFile("testdata/does-not-exist.json")
	assert.Error(t, ReadInConfig())
}

type brokerConfig struct {
	Type string `json:"type" env:"TEST_BROKER_TYPE"`
	URI  string `json:"uri" env:"TEST_BROKER_URI"`
}

func TestUnmarshal(t *testing.T) {
	defer Reset()
	require.NoError(t, ReadConfig(strings.NewReader(`{"broker":{"type":"rabbitmq","uri":"amqp://localhost"}}`)))

	var c brokerConfig
	require.NoError(t, Unmarshal("broker", &c))
	assert.Equal(t, "rabbitmq", c.Type)
	assert.Equal(t, "amqp://localhost", c.URI)
}

func TestUnmarshalEnvPrecedence(t *testing.T) {
	defer Reset()
	require.NoError(t, ReadConfig(strings.NewReader(`{"broker":{"type":"rabbitmq","uri":"amqp://file"}}`)))

	os.Setenv("TEST_BROKER_URI", "amqp://env")
	defer os.Unsetenv("TEST_BROKER_URI")

	var c brokerConfig
	require.NoError(t, Unmarshal("broker", &c))
	assert.Equal(t, "rabbitmq", c.Type)
	assert.Equal(t, "amqp://env", c.URI)
}

func TestUnmarshalMissingKey(t *testing.T) {
	defer Reset()
	var c brokerConfig
	assert.NoError(t, Unmarshal("broker", &c))
	assert.Empty(t, c.Type)
}
