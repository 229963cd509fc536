package main

import (
	"flag"
	"io"
)

type AppFlags struct {
	ConfigFile   string
	Mode         string
	ProductsFile string
	EnvFile      string
	History      int
}

// firstSet returns the long form when given, else its alias.
func firstSet(long, alias string) string {
	if long != "" {
		return long
	}
	return alias
}

// ParseFlags parses args (without the program name).
func ParseFlags(args []string, output io.Writer) (AppFlags, error) {
	fs := flag.NewFlagSet("dealnotifier", flag.ContinueOnError)
	fs.SetOutput(output)

	configFile := fs.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := fs.String("c", "", "Alias for -config")

	modeFlag := fs.String("mode", "", "Mode to run the tool: onetime or automated (overrides config file if set)")
	modeFlagAlias := fs.String("m", "", "Alias for -mode")

	productsFile := fs.String("products", "", "Path to the product list (overrides products.filename)")
	productsFileAlias := fs.String("p", "", "Alias for -products")

	envFile := fs.String("env", "", "Path to a dotenv file loaded before the configuration (default .env, optional)")
	envFileAlias := fs.String("e", "", "Alias for -env")

	history := fs.Int("history", 0, "Print the N most recent runs from the run history and exit")

	if err := fs.Parse(args); err != nil {
		return AppFlags{}, err
	}

	return AppFlags{
		ConfigFile:   firstSet(*configFile, *configFileAlias),
		Mode:         firstSet(*modeFlag, *modeFlagAlias),
		ProductsFile: firstSet(*productsFile, *productsFileAlias),
		EnvFile:      firstSet(*envFile, *envFileAlias),
		History:      *history,
	}, nil
}
