// Package ui provides styled console output for the devinv CLI commands.
//
// Unlike the full-screen dashboard in package tui, these components follow
// a "print once and exit" pattern: they render Lipgloss boxes and tables
// to stdout and need no event loop.
//
// # Components
//
//   - Header: command banner showing the operation and its parameters
//   - DeviceTable: one page of devices with coloured status cells
//   - Result: success, failure, warning and info boxes; failures carry the
//     gateway's troubleshooting tips
//   - Confirm: y/N prompt guarding destructive commands
//
// # Usage Example
//
//	fmt.Println(ui.NewHeader("Device Inventory", "devinv list",
//	    ui.Param{Key: "API", Value: baseURL},
//	).Render())
//
//	fmt.Println(ui.DeviceTable{Rows: rows, Pager: pager, Total: total}.Render())
//
// # Logging Integration
//
// Output here is meant for people; diagnostics go through package logging,
// which stays silent unless DEVINV_LOG_LEVEL or --log-level is set.
package ui
