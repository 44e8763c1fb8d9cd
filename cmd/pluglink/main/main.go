package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/pluglink/cmd/pluglink"
	"github.com/arthur-debert/pluglink/pkg/ui/styles"
)

func main() {
	rootCmd := pluglink.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
