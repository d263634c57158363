package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding file settings,
// e.g. OFFBOARD_POSTGRES_PASSWORD overrides postgres.password.
const EnvPrefix = "OFFBOARD"

type Config struct {
	Env      string         `yaml:"env"`      // Env is the current environment: local, development, production.
	Postgres PostgresConfig `yaml:"postgres"` // Postgres holds the asset database configuration.
	Input    InputConfig    `yaml:"input"`    // Input describes the roster file.
	Output   OutputConfig   `yaml:"output"`   // Output holds report locations.
	SMTP     SMTPConfig     `yaml:"smtp"`     // SMTP holds the relay configuration.
	Mail     MailConfig     `yaml:"mail"`     // Mail holds the message settings.
	Metrics  MetricsConfig  `yaml:"metrics"`  // Metrics holds the optional metric sinks.
	Archive  ArchiveConfig  `yaml:"archive"`  // Archive holds the optional audit upload target.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
	SSLMode  string `yaml:"sslmode"`  // SSLMode is passed to the driver as is.
}

// InputConfig describes where the roster lives and how it is parsed.
type InputConfig struct {
	RosterPath      string   `yaml:"roster_path"`
	Delimiter       rune     `yaml:"delimiter"`
	CCColumns       []string `yaml:"cc_columns"`
	SkipIncomplete  bool     `yaml:"skip_incomplete"`
	RequireCCColumn bool     `yaml:"require_cc_column"`
}

// OutputConfig holds the report locations.
type OutputConfig struct {
	Dir           string `yaml:"dir"`            // Dir receives the per-employee CSV and XLSX files.
	CombinedPath  string `yaml:"combined_path"`  // CombinedPath is the audit file spanning the whole run.
	ResetCombined bool   `yaml:"reset_combined"` // ResetCombined deletes the audit file before the run.
}

// SMTPConfig holds the unauthenticated relay settings.
type SMTPConfig struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	HELO    string        `yaml:"helo"`
	Timeout time.Duration `yaml:"timeout"`
}

// MailConfig holds the message settings.
type MailConfig struct {
	Sender          string `yaml:"sender"`
	Subject         string `yaml:"subject"`
	RecipientDomain string `yaml:"recipient_domain"`
	Note            string `yaml:"note"`
}

// MetricsConfig holds the optional metric sinks of a batch run.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
	TextfilePath   string `yaml:"textfile_path"`
}

// ArchiveConfig holds the optional upload target of the combined audit file.
type ArchiveConfig struct {
	SFTP SFTPConfig `yaml:"sftp"`
}

// SFTPConfig is disabled when Host is empty.
type SFTPConfig struct {
	Host                  string `yaml:"host"`
	Port                  int    `yaml:"port"`
	User                  string `yaml:"user"`
	Password              string `yaml:"password"`
	RemoteDir             string `yaml:"remote_dir"`
	KnownHosts            string `yaml:"known_hosts"`
	InsecureIgnoreHostKey bool   `yaml:"insecure_ignore_host_key"`
}

const (
	defaultSubject = "IT Equipment Return (Offboarding)"
	defaultNote    = "Below is the current list of IT hardware assigned to your account. " +
		"Kindly review and let us know if any item is missing or should be returned."
	defaultSMTPPort    = 25
	defaultSMTPTimeout = 30 * time.Second
	defaultSFTPPort    = 22
)

// MustLoad loads the configuration from the file named by CONFIG_PATH and panics on failure.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		panic("config path is empty")
	}

	cfg, err := Load(configPath)
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// Load reads a YAML configuration file, applies defaults and OFFBOARD_* environment overrides,
// and validates the result. A .env file in the working directory is loaded first when present.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	vpr := viper.New()
	vpr.SetConfigFile(configPath)
	vpr.SetEnvPrefix(EnvPrefix)
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()
	setDefaults(vpr)

	if err := vpr.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	delimiter, err := parseDelimiter(vpr.GetString("input.delimiter"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env: vpr.GetString("env"),
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
			SSLMode:  vpr.GetString("postgres.sslmode"),
		},
		Input: InputConfig{
			RosterPath:      vpr.GetString("input.roster_path"),
			Delimiter:       delimiter,
			CCColumns:       vpr.GetStringSlice("input.cc_columns"),
			SkipIncomplete:  vpr.GetBool("input.skip_incomplete"),
			RequireCCColumn: vpr.GetBool("input.require_cc_column"),
		},
		Output: OutputConfig{
			Dir:           vpr.GetString("output.dir"),
			CombinedPath:  vpr.GetString("output.combined_path"),
			ResetCombined: vpr.GetBool("output.reset_combined"),
		},
		SMTP: SMTPConfig{
			Host:    vpr.GetString("smtp.host"),
			Port:    vpr.GetInt("smtp.port"),
			HELO:    vpr.GetString("smtp.helo"),
			Timeout: vpr.GetDuration("smtp.timeout"),
		},
		Mail: MailConfig{
			Sender:          vpr.GetString("mail.sender"),
			Subject:         vpr.GetString("mail.subject"),
			RecipientDomain: vpr.GetString("mail.recipient_domain"),
			Note:            vpr.GetString("mail.note"),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: vpr.GetString("metrics.pushgateway_url"),
			Job:            vpr.GetString("metrics.job"),
			TextfilePath:   vpr.GetString("metrics.textfile_path"),
		},
		Archive: ArchiveConfig{
			SFTP: SFTPConfig{
				Host:                  vpr.GetString("archive.sftp.host"),
				Port:                  vpr.GetInt("archive.sftp.port"),
				User:                  vpr.GetString("archive.sftp.user"),
				Password:              vpr.GetString("archive.sftp.password"),
				RemoteDir:             vpr.GetString("archive.sftp.remote_dir"),
				KnownHosts:            vpr.GetString("archive.sftp.known_hosts"),
				InsecureIgnoreHostKey: vpr.GetBool("archive.sftp.insecure_ignore_host_key"),
			},
		},
	}

	if err = validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(vpr *viper.Viper) {
	vpr.SetDefault("env", "local")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("postgres.sslmode", "disable")
	vpr.SetDefault("input.roster_path", "employeesInput.csv")
	vpr.SetDefault("input.delimiter", ",")
	vpr.SetDefault("input.cc_columns", []string{"Email", "EmailAddress", "CC", "Cc"})
	vpr.SetDefault("input.skip_incomplete", true)
	vpr.SetDefault("output.dir", "out")
	vpr.SetDefault("output.combined_path", "hardwareOutput.csv")
	vpr.SetDefault("output.reset_combined", true)
	vpr.SetDefault("smtp.port", defaultSMTPPort)
	vpr.SetDefault("smtp.timeout", defaultSMTPTimeout)
	vpr.SetDefault("mail.subject", defaultSubject)
	vpr.SetDefault("mail.note", defaultNote)
	vpr.SetDefault("metrics.job", "charon")
	vpr.SetDefault("archive.sftp.port", defaultSFTPPort)
	vpr.SetDefault("archive.sftp.remote_dir", "/")
}

func parseDelimiter(raw string) (rune, error) {
	if raw == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(raw) != 1 {
		return 0, fmt.Errorf("input.delimiter must be a single character, got %q", raw)
	}
	r, _ := utf8.DecodeRuneInString(raw)

	return r, nil
}

// validateConfig collects every problem so an operator can fix the file in one go.
func validateConfig(cfg *Config) error {
	var problems []string

	if cfg.Postgres.Host == "" {
		problems = append(problems, "postgres.host is required")
	}
	if cfg.Postgres.User == "" {
		problems = append(problems, "postgres.user is required")
	}
	if cfg.Postgres.Dbname == "" {
		problems = append(problems, "postgres.db_name is required")
	}
	if cfg.SMTP.Host == "" {
		problems = append(problems, "smtp.host is required")
	}
	if cfg.SMTP.Port < 1 || cfg.SMTP.Port > 65535 {
		problems = append(problems, "smtp.port must be between 1 and 65535")
	}
	if cfg.Mail.Sender == "" {
		problems = append(problems, "mail.sender is required")
	}
	if cfg.Mail.RecipientDomain == "" {
		problems = append(problems, "mail.recipient_domain is required")
	}
	if cfg.Output.Dir == "" || cfg.Output.CombinedPath == "" {
		problems = append(problems, "output.dir and output.combined_path are required")
	}
	if cfg.Archive.SFTP.Host != "" && cfg.Archive.SFTP.User == "" {
		problems = append(problems, "archive.sftp.user is required when archive.sftp.host is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(problems, "; "))
	}

	return nil
}
