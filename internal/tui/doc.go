// Package tui implements the full-screen terminal dashboard for devinv.
//
// It is built on Bubble Tea and follows the Model-Update-View split: every
// screen is a value model, network calls run as tea.Cmd functions and come
// back as messages, and all state changes happen in Update on a single
// goroutine.
//
// # Screens
//
//   - Discovery: shown when no API URL is configured. Browses the network
//     for inventory APIs over mDNS or takes a URL typed by hand.
//   - Dashboard: overview counters, filter bar, the paginated device table
//     and the status/type charts.
//
// Both render through RenderApplicationContainer so they share the header,
// footer help and border.
//
// # Dashboard Modals
//
// The dashboard layers three modals over the table, checked in this order
// by Update and View:
//
//   - Help (?): full key reference, any key closes it
//   - Delete confirmation (d): y deletes, any other key cancels
//   - Device form (n, e, v/enter): create, edit or read-only view
//
// Edit and view fetch the device first; if that fails the form does not
// open and a notification reads "failed to load device".
//
// # Loading and Staleness
//
// Device and stats loads carry a sequence number from dashboard.State.
// A response older than one already applied is dropped, so a slow reply
// cannot replace fresher data. After a successful submit the list and
// stats are re-read; after a delete they are re-read together through
// gateway Refresh and the table returns to page 1.
//
// # Usage Example
//
//	err := tui.Run(tui.Options{
//	    API: gateway.NewClient("http://localhost:8080"),
//	})
package tui
