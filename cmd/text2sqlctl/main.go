package main

import (
	"fmt"
	"os"

	"github.com/sam171002/Text-2-SQL/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
