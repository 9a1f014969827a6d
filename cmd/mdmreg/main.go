// Command mdmreg authors master-data entity definitions and derives JSON
// Schema and TypeScript declarations from them.
package main

import "github.com/mesh-intelligence/mdmreg/internal/cli"

func main() {
	cli.Execute()
}
