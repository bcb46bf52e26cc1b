package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/web"
)

var (
	serveDB    string
	serveTable string
	servePort  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recorded sweep results over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveDB == "" {
			return fmt.Errorf("no results database given, use --db")
		}

		db := datarecording.NewReader(serveDB)
		defer db.Close()

		server := web.NewServer(db, serveTable, servePort, newLogger())

		return server.Start()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveDB,
		"db", envString("CACHESIM_DB", ""),
		"SQLite results database to serve")
	serveCmd.Flags().StringVar(&serveTable,
		"table", "capacity",
		"results table to serve; sweeps record one table per axis:"+
			" capacity, block_size, associativity")
	serveCmd.Flags().IntVar(&servePort,
		"port", envInt("CACHESIM_PORT", 0),
		"port to listen on (0 picks a free port)")

	rootCmd.AddCommand(serveCmd)
}
