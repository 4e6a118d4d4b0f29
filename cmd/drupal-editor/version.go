package main

import "fmt"

// Set via -ldflags at release build time.
var (
	version = "dev"
	commit  = "none"
)

func buildVersionString() string {
	if commit == "none" {
		return fmt.Sprintf("drupal-editor %s", version)
	}
	return fmt.Sprintf("drupal-editor %s (%s)", version, commit)
}
