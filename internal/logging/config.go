package logging

// Config is the logging section of canvastream.yml.
type Config struct {
	// Level is the minimum level to output ("debug", "info", "warn", "error").
	// Overridden by CANVASTREAM_LOG_LEVEL.
	Level string `yaml:"level"`

	// Format is "text" (default) or "json".
	Format string `yaml:"format"`

	// ReportCaller includes file and line in every entry.
	ReportCaller bool `yaml:"report_caller"`
}
