package client

import (
	"os"

	"conveyor/pkg/client"
)

const (
	envServerURI = "CONVEYOR_SERVER"
	defaultURI   = "http://127.0.0.1:8080"
)

// New returns a client to the controller designated by the CONVEYOR_SERVER
// environment variable, defaulting to a local controller.
func New() (client.Client, error) {
	uri := os.Getenv(envServerURI)
	if uri == "" {
		uri = defaultURI
	}
	return client.NewClient(uri)
}
