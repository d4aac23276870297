// Command dmscan decodes Data Matrix symbols in image files and renders
// new ones.
//
// Usage:
//
//	dmscan scan [flags] <image-file> [image-file...]
//	dmscan encode [flags] <text>
//
// Exit status is 0 when every image decoded, 1 on usage or configuration
// errors and 2 when some image held no readable symbol.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
