// Package gateway provides the HTTP client for the device inventory REST API.
//
// Every operation issues exactly one request under the API base path
// (default "http://localhost:8080/api") and returns either decoded data or
// an *Error. Requests are never retried and never served from a cache; the
// dashboard replaces its data wholesale after each call.
//
// # Operations
//
//	GET    /devices           ListDevices
//	GET    /devices/{code}    GetDevice
//	POST   /devices           CreateDevice
//	PUT    /devices/{code}    UpdateDevice
//	DELETE /devices/{code}    DeleteDevice
//	GET    /device-types      ListDeviceTypes
//	GET    /departments       ListDepartments
//	GET    /stats             GetStats
//
// Refresh combines ListDevices and GetStats, running both concurrently and
// failing as a whole when either fails.
//
// # Usage Example
//
//	client := gateway.NewClient("http://inventory.local:8080")
//	client.SetTimeout(5 * time.Second)
//
//	devices, err := client.ListDevices(ctx)
//	if err != nil {
//	    fmt.Println(gateway.ShortMessage(err))
//	    fmt.Println(gateway.TroubleshootingHint(err))
//	    return err
//	}
//
// # Errors
//
// Transport failures are classified as timeout, connection refused, DNS or
// generic network errors. Non-2xx responses become ErrTypeAPI errors that
// carry the status code and the backend's {"error": "..."} message when it
// sent one. Use ServerMessage to show that message with a fallback.
//
// Departments are de-duplicated by code as they are received, so callers
// never see two entries for the same code.
package gateway
