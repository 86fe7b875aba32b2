// Package discovery locates inventory APIs on the local network over mDNS.
//
// Backends that want to be found advertise the "_devinv._tcp" service type
// with an optional "path" TXT record naming the API base path:
//
//	Inventory._devinv._tcp.local.  SRV  0 0 8080 inventory.local.
//	Inventory._devinv._tcp.local.  TXT  "path=/api" "version=1.2.0"
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	scanner.Timeout = 3 * time.Second
//
//	services, err := scanner.Browse(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, svc := range services {
//	    fmt.Println(svc.Instance, svc.BaseURL())
//	}
//
// FindFirst stops at the first answer and is what the dashboard uses when
// api.discover is enabled and no URL is configured.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - The backend must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
