package main

import (
	"log"

	"github.com/vm75/nginx-manager/cmd"
)

func main() {
	webFS, err := frontendFS()
	if err != nil {
		log.Fatalf("failed to load frontend assets: %v", err)
	}
	cmd.WebFS = webFS
	cmd.Execute()
}
