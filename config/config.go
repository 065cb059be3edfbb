package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyDatabasePath             = "database.path"
	KeyLogLevel                 = "log.level"
	KeyLogFormat                = "log.format"
	KeyLeaveIncludeWeekends     = "leave.include_weekends"
	KeyLeaveExcludeHolidays     = "leave.exclude_holidays"
	KeyMaxValidPunches          = "attendance.max_valid_punches"
	KeyOvertimeThreshold        = "attendance.overtime_threshold_minutes"
	KeyCrossMidnightMode        = "attendance.cross_midnight_mode"
	KeyImportAutoReconcileAfter = "import.auto_reconcile_after_import"
	KeyImportRules              = "import.rules"
	KeyServePort                = "serve.port"
)

type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Leave      LeaveConfig      `mapstructure:"leave"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Import     ImportConfig     `mapstructure:"import"`
	Serve      ServeConfig      `mapstructure:"serve"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

type LeaveConfig struct {
	IncludeWeekends bool `mapstructure:"include_weekends"`
	ExcludeHolidays bool `mapstructure:"exclude_holidays"`
}

type AttendanceConfig struct {
	MaxValidPunches          int    `mapstructure:"max_valid_punches" validate:"min=1,max=32"`
	OvertimeThresholdMinutes int    `mapstructure:"overtime_threshold_minutes" validate:"min=0,max=720"`
	CrossMidnightMode        string `mapstructure:"cross_midnight_mode" validate:"oneof=heuristic explicit"`
}

type ImportConfig struct {
	AutoReconcileAfterImport bool         `mapstructure:"auto_reconcile_after_import"`
	Rules                    []ImportRule `mapstructure:"rules"`
}

// ImportRule binds a file name template to the import kind and reader format
// its files use, so recurring exports need no flags.
type ImportRule struct {
	Name         string `mapstructure:"name"`
	Kind         string `mapstructure:"kind"`
	FileTemplate string `mapstructure:"file_template"`
	Format       string `mapstructure:"format"`
	BranchCode   string `mapstructure:"branch_code"`
	// Sheet names the worksheet of Excel inputs; the first sheet otherwise.
	Sheet string `mapstructure:"sheet"`
}

type ServeConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# attendly configuration
database:
  path: "attendly.db"

log:
  level: "info"
  format: "text"

leave:
  include_weekends: false
  exclude_holidays: true

attendance:
  max_valid_punches: 4
  # minimum overtime reported; 0 reports every minute past the scheduled end
  overtime_threshold_minutes: 15
  # heuristic: infer next-day punches from the roster window
  # explicit: only trust the day_offset column of imported punches
  cross_midnight_mode: "heuristic"

import:
  auto_reconcile_after_import: true
  rules: []

serve:
  port: 8080
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.Attendance.CrossMidnightMode = strings.ToLower(strings.TrimSpace(cfg.Attendance.CrossMidnightMode))

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateRules(cfg.Import.Rules); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, "attendly.db")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLeaveIncludeWeekends, false)
	v.SetDefault(KeyLeaveExcludeHolidays, true)
	v.SetDefault(KeyMaxValidPunches, 4)
	v.SetDefault(KeyOvertimeThreshold, 15)
	v.SetDefault(KeyCrossMidnightMode, "heuristic")
	v.SetDefault(KeyImportAutoReconcileAfter, true)
	v.SetDefault(KeyImportRules, []map[string]any{})
	v.SetDefault(KeyServePort, 8080)
}

func validateRules(rules []ImportRule) error {
	validKinds := map[string]bool{
		"clock":   true,
		"roster":  true,
		"holiday": true,
	}
	validFormats := map[string]bool{
		"":       true,
		"csv":    true,
		"excel":  true,
		"device": true,
	}
	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return fmt.Errorf("validation failed: import.rules[%d].name is required", i)
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate rule name %q", name)
		}
		seen[key] = struct{}{}
		kind := strings.ToLower(strings.TrimSpace(rule.Kind))
		if kind == "" {
			return fmt.Errorf("validation failed: import.rules[%d].kind is required", i)
		}
		if !validKinds[kind] {
			return fmt.Errorf(
				"validation failed: import.rules[%d].kind %q is not supported (valid: clock, roster, holiday)",
				i,
				rule.Kind,
			)
		}
		if !validFormats[strings.ToLower(strings.TrimSpace(rule.Format))] {
			return fmt.Errorf(
				"validation failed: import.rules[%d].format %q is not supported (valid: csv, excel, device)",
				i,
				rule.Format,
			)
		}
		if strings.TrimSpace(rule.FileTemplate) == "" {
			return fmt.Errorf("validation failed: import.rules[%d].file_template is required", i)
		}
		format := strings.ToLower(strings.TrimSpace(rule.Format))
		if strings.TrimSpace(rule.Sheet) != "" && format != "" && format != "excel" {
			return fmt.Errorf("validation failed: import.rules[%d].sheet only applies to excel inputs", i)
		}
	}
	return nil
}
