package config

// Config file (global)
var Config JSONConfig

// JSONConfig structure based on config.json
type JSONConfig struct {
	Host         string        `json:"host"`
	Port         string        `json:"port"`
	Debug        bool          `json:"debug"`
	EnableCORS   bool          `json:"enable-cors"`
	EnableStatic bool          `json:"enable-static"`
	StaticFolder string        `json:"static-folder"`
	SSL          SSLConfig     `json:"ssl"`
	Storage      StorageConfig `json:"storage"`
	MinIO        MinIOConfig   `json:"minIO"`
}

// SSLConfig structure based on ssl part of config.json
type SSLConfig struct {
	Enable bool   `json:"enable"`
	Cert   string `json:"cert"`
	Key    string `json:"key"`
}

// StorageConfig selects the record store driver and its addresses
type StorageConfig struct {
	Driver  string       `json:"driver"` // "file", "redis" or "scylla"
	DataDir string       `json:"data-dir"`
	Redis   RedisConfig  `json:"redis"`
	Scylla  ScyllaConfig `json:"scylla"`
}

// RedisConfig structure for the redis store driver
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// ScyllaConfig structure for the scylla store driver
type ScyllaConfig struct {
	Addr     string `json:"addr"`
	Keyspace string `json:"keyspace"`
}

// MinIOConfig structure is the config for MinIO connection
type MinIOConfig struct {
	Enable   bool   `json:"enable"`
	Addr     string `json:"addr"`
	User     string `json:"user"`
	Password string `json:"password"`
}
