package main

import (
	"fmt"

	connector "github.com/biodt/argo-cordra-connector"
)

func main() {
	version, err := connector.GetVersion()
	if err != nil {
		fmt.Println("Failed to load version:", err)
	}
	execute(version)
}
