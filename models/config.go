package models

// Config holds the PostgreSQL connection settings read from config.json.
// Redis and oracle settings come from environment variables instead.
type Config struct {
	DBHost     string `json:"db_host"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
	DBSSLMode  string `json:"db_sslmode"`
}
