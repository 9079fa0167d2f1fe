// Command schema prints the postgres DDL of the models, for use as an atlas
// external schema source:
//
//	data "external_schema" "gorm" {
//	  program = ["go", "run", "./src/cmd/schema"]
//	}
package main

import (
	"fmt"
	"io"
	"livevibe/src/models"
	"os"

	"ariga.io/atlas-provider-gorm/gormschema"
)

func main() {
	stmts, err := gormschema.New("postgres").Load(
		&models.User{},
		&models.Event{},
		&models.EventSeatType{},
		&models.Ticket{},
		&models.Order{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load gorm schema: %v\n", err)
		os.Exit(1)
	}
	io.WriteString(os.Stdout, stmts)
}
