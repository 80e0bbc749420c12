package config

// StorageDriver selects the project repository backend.
type StorageDriver string

const (
	DriverSQLite StorageDriver = "sqlite"
	DriverMongo  StorageDriver = "mongo"
)

// Config is the top-level pagecraft configuration, corresponding to .pagecraft.yml.
type Config struct {
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Storage  StorageConfig  `yaml:"storage" koanf:"storage"`
	History  HistoryConfig  `yaml:"history" koanf:"history"`
	Autosave AutosaveConfig `yaml:"autosave" koanf:"autosave"`
	Export   ExportConfig   `yaml:"export" koanf:"export"`
	Log      LogConfig      `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port                  int  `yaml:"port" koanf:"port"`
	AllowAllOrigins       bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	RequestTimeoutSeconds int  `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
	SessionIdleMinutes    int  `yaml:"session_idle_minutes" koanf:"session_idle_minutes"`
	MaxAnonymousSessions  int  `yaml:"max_anonymous_sessions" koanf:"max_anonymous_sessions"`
}

// StorageConfig selects and configures the project repository.
type StorageConfig struct {
	Driver        StorageDriver `yaml:"driver" koanf:"driver"`
	SQLitePath    string        `yaml:"sqlite_path" koanf:"sqlite_path"`
	MongoURI      string        `yaml:"mongo_uri" koanf:"mongo_uri"`
	MongoDatabase string        `yaml:"mongo_database" koanf:"mongo_database"`
}

// HistoryConfig bounds undo history per document.
type HistoryConfig struct {
	Limit int `yaml:"limit" koanf:"limit"`
}

// AutosaveConfig sets the quiet period before an edited project is saved.
type AutosaveConfig struct {
	DelayMS int `yaml:"delay_ms" koanf:"delay_ms"`
}

// ExportConfig holds site export settings.
type ExportConfig struct {
	Filename    string `yaml:"filename" koanf:"filename"`
	EscapeProps bool   `yaml:"escape_props" koanf:"escape_props"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}
