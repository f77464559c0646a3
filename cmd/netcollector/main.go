// Command netcollector runs inventory collection against the sources
// named in its configuration and stores the results in SQLite.
package main

import "netcollector/internal/cli"

func main() {
	cli.Execute()
}
