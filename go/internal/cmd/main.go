package main

import (
	"github.com/spf13/cobra"
)

const releaseVersion = "0.4.0"

func main() {
	opts := &rootOptions{}
	cobra.CheckErr(newRootCmd(opts).Execute())
}
