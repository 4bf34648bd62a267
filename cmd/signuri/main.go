// Command signuri signs payloads into URIs, verifies signed URIs and serves
// signed click-tracking redirects.
package main

import "github.com/shopello/urisign/cmd/signuri/cmd"

func main() {
	cmd.Execute()
}
