// =============================================================================
// Spreadsheet Translator - Main Entry Point
// =============================================================================
//
// USAGE:
//   translator demo:translator  - Convert books and print a sample translation
//   translator validate         - Parse every book without writing catalogs
//   translator version          - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Dispatcher, converter, translator and their building blocks
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/spreadsheet-translator/cmd"
)

func main() {
	cmd.Execute()
}
