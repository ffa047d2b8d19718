// Package main prints the IVCAP service descriptor to stdout. The deployment
// tooling substitutes the URN placeholders before registering the service.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ivcap-works/pairwise-align/internal/ivcap"
	"github.com/ivcap-works/pairwise-align/internal/service"
)

func main() {
	port := flag.Int("port", 8080, "Port the service container listens on")
	command := flag.String("command", "/align-service", "Command starting the service inside the container")
	flag.Parse()

	desc := ivcap.New(service.Title, service.Description, ivcap.RESTController{
		Command:   []string{*command},
		Port:      *port,
		ReadyPath: "/_healtz",
		Request:   service.RequestDefinition(),
		Response:  service.ResponseDefinition(),
	})

	raw, err := desc.Render()
	if err != nil {
		fmt.Fprintf(os.Stderr, "descriptor: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(raw))
}
