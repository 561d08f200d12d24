// =============================================================================
// Purchasing Analytics - Main Entry Point
// =============================================================================
//
// USAGE:
//   purchasing monthly     - Monthly totals with a moving average
//   purchasing trends      - Rising and falling suppliers
//   purchasing search      - Supplier name search
//   purchasing dependency  - Financial dependency ranking
//   purchasing report      - Run every analysis and write report files
//   purchasing validate    - Check the datasets without analysing them
//   purchasing version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Loading, validation, analytics and reporting
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/purchasing-analytics/cmd"
)

func main() {
	cmd.Execute()
}
