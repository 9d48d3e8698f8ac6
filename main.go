package main

import (
	"fmt"
	"os"

	"github.com/oseayemenre/bookstore/cmd"
)

// @title		Bookstore
// @version	1.0
// @host		localhost:3000
// @BasePath	/
func main() {
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
