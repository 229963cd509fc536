package config

import "github.com/robfig/cron/v3"

// SchedulerConfig defines configuration for the automated mode trigger
type SchedulerConfig struct {
	CronExpression string `json:"cron_expression,omitempty" yaml:"cron_expression,omitempty" validate:"required,cronexpr"`
	RunOnStart     bool   `json:"run_on_start" yaml:"run_on_start"`
	SQLiteDBPath   string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty"` // empty disables run history
	TimeZone       string `json:"time_zone,omitempty" yaml:"time_zone,omitempty" validate:"omitempty,timezone"`
}

// NewDefaultSchedulerConfig creates default scheduler configuration
func NewDefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		CronExpression: DefaultSchedulerCronExpression,
		RunOnStart:     true,
		SQLiteDBPath:   DefaultSchedulerSQLiteDBPath,
	}
}

// cronParser accepts standard 5-field expressions, an optional leading seconds field and descriptors like @hourly.
var cronParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// CronParser returns the parser used for cron_expression.
func CronParser() cron.Parser {
	return cronParser
}

// ParseCronExpression validates and parses a cron expression.
func ParseCronExpression(expr string) (cron.Schedule, error) {
	return cronParser.Parse(expr)
}
