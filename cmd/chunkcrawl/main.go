// Package main provides the entry point for the chunkcrawl CLI.
//
// chunkcrawl fetches web content and repackages it into token-budgeted
// chunks that fit language model context windows.
//
// Usage:
//
//	chunkcrawl crawl <root-url>
//	chunkcrawl search --endpoint <url> <query>
//	chunkcrawl fetch <url> [<url>...]
//
// See --help for all available options.
package main

// main is the entry point for chunkcrawl.
func main() {
	Execute()
}
