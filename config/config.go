package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Drivers de armazenamento suportados.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type StoreConfig struct {
	Driver      string
	MongoURI    string
	MongoDBName string
	PostgresDSN string
}

type LogConfig struct {
	Level string
	JSON  bool
}

type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
	Level   string
}

type EventsConfig struct {
	RabbitMQURL string
	Exchange    string
}

// Config guarda toda a configuração da aplicação.
type Config struct {
	AppName     string
	HTTPPort    string
	CORSOrigins []string
	Store       StoreConfig
	Log         LogConfig
	FluentBit   FluentBitConfig
	Events      EventsConfig
}

// Load lê a configuração das variáveis de ambiente. Se existir um arquivo .env
// (ou o caminho informado), ele é carregado antes; a ausência do arquivo não é erro.
func Load(envPath ...string) (*Config, error) {
	if err := godotenv.Load(envPath...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("falha ao carregar arquivo .env: %w", err)
	}

	cfg := &Config{
		AppName:     getEnv("APP_NAME", "property-backend"),
		HTTPPort:    getEnv("PORT", "5000"),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		Store: StoreConfig{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
			MongoURI:    os.Getenv("MONGODB_URI"),
			MongoDBName: os.Getenv("MONGO_DB_NAME"),
			PostgresDSN: os.Getenv("DATABASE_URL"),
		},
		Log: LogConfig{
			Level: getEnv("STDOUT_LOG_LEVEL", "info"),
			JSON:  strings.EqualFold(getEnv("LOG_FORMAT", "text"), "json"),
		},
		FluentBit: FluentBitConfig{
			Enabled: getEnvAsBool("FLUENTBIT_ENABLED", false),
			Host:    os.Getenv("FLUENTBIT_HOST"),
			Port:    getEnvAsInt("FLUENTBIT_PORT", 24224),
			Level:   getEnv("FLUENTBIT_LOG_LEVEL", "info"),
		},
		Events: EventsConfig{
			RabbitMQURL: os.Getenv("RABBITMQ_URL"),
			Exchange:    getEnv("EVENTS_EXCHANGE", "properties.events"),
		},
	}

	if cfg.FluentBit.Enabled && cfg.FluentBit.Host == "" {
		log.Println("AVISO: FLUENTBIT_ENABLED=true mas FLUENTBIT_HOST não definido. Fluent Bit desativado.")
		cfg.FluentBit.Enabled = false
	}

	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s StoreConfig) validate() error {
	switch s.Driver {
	case DriverMongo:
		if s.MongoURI == "" || s.MongoDBName == "" {
			return errors.New("MONGODB_URI e MONGO_DB_NAME são obrigatórios para STORE_DRIVER=mongo")
		}
	case DriverPostgres:
		if s.PostgresDSN == "" {
			return errors.New("DATABASE_URL é obrigatório para STORE_DRIVER=postgres")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER desconhecido: %q", s.Driver)
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("AVISO: %s=%q não é inteiro, usando %d", key, v, def)
		return def
	}
	return n
}

func getEnvAsBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("AVISO: %s=%q não é booleano, usando %t", key, v, def)
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
