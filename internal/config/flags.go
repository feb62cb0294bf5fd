package config

import (
	"flag"
	"io"
)

// flags carries command-line overrides. Empty or zero values mean "not given".
//
// Supported flags:
//
//	-c string   YAML config file
//	-a int      listen port
//	-d string   PostgreSQL DSN
//	-l string   log level
type flags struct {
	configFile string
	port       int
	dsn        string
	logLevel   string
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&f.configFile, "c", "", "path to YAML config file")
	fs.IntVar(&f.port, "a", 0, "port to listen on")
	fs.StringVar(&f.dsn, "d", "", "database DSN")
	fs.StringVar(&f.logLevel, "l", "", "log level (DEBUG, INFO, WARN, ERROR)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *flags) apply(c *Config) {
	if f.port != 0 {
		c.Port = f.port
	}
	if f.dsn != "" {
		c.Database.URL = f.dsn
	}
	if f.logLevel != "" {
		c.LogLevel = f.logLevel
	}
}
