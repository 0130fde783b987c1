package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Cassandra settings carry their own types:
// the host list is already split and the timeout is a duration.
type Config struct {
	Env                  string        // application environment (e.g. "dev", "prod")
	Port                 string        // HTTP port to listen on
	CassandraHosts       []string      // Cassandra contact points
	CassandraKeyspace    string        // keyspace holding the application tables
	CassandraConsistency string        // consistency level for reads and writes
	CassandraTimeout     time.Duration // per-query timeout
	BcryptCost           int           // bcrypt cost for password hashing
	RabbitURL            string        // AMQP broker URL; empty disables event publishing
}

// Load reads configuration from a .env file (when present) and the
// environment, and returns a Config. Required variables are enforced by
// must() and missing values cause the program to exit with a fatal log
// message.
func Load() Config {
	// Load .env for local development. Absence is fine; real deployments
	// set variables in the environment.
	_ = godotenv.Load()

	return Config{
		Env:                  must("APP_ENV"),
		Port:                 must("APP_PORT"),
		CassandraHosts:       splitHosts(must("CASSANDRA_HOSTS")),
		CassandraKeyspace:    must("CASSANDRA_KEYSPACE"),
		CassandraConsistency: envStr("CASSANDRA_CONSISTENCY", "QUORUM"),
		CassandraTimeout:     envDur("CASSANDRA_TIMEOUT", 5*time.Second),
		BcryptCost:           mustInt("BCRYPT_COST"),
		RabbitURL:            os.Getenv("RABBITMQ_URL"),
	}
}

// splitHosts parses a comma-separated contact point list.
func splitHosts(s string) []string {
	parts := strings.Split(s, ",")
	hosts := make([]string, 0, len(parts))
	for _, p := range parts {
		if h := strings.TrimSpace(p); h != "" {
			hosts = append(hosts, h)
		}
	}
	if len(hosts) == 0 {
		log.Fatalf("CASSANDRA_HOSTS contains no hosts: %q", s)
	}
	return hosts
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
