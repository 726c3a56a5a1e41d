package main

import (
	"flag"
	"io"
)

type options struct {
	envFile     string
	migrateDown bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("leadbot", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	fs.BoolVar(&opts.migrateDown, "migrate-down", false, "roll back the last journal migration and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}
