// Package main implements the entry point for the tasks API server, which
// exposes CRUD operations on tasks over HTTP and stores them in PostgreSQL.
package main

import (
	"github.com/alecthomas/kong"
)

// CLI is the command-line interface of the server binary.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path (optional)" type:"path"`
	EnvFile string `help:"Dotenv file loaded before configuration" default:".env" name:"env-file"`

	Serve   ServeCmd   `cmd:"" default:"withargs" help:"Run the HTTP API server"`
	Migrate MigrateCmd `cmd:"" help:"Run database migrations"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tasks-api"),
		kong.Description("REST API for managing tasks."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
