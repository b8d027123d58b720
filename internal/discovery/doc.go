// Package discovery advertises and finds SmartThermo config services over
// mDNS.
//
// A device running "smartthermo serve" registers an instance named
// "SmartThermo-<id>" under the "_smartthermo._tcp" service type, with TXT
// records carrying the firmware version and the API path. Scanner browses
// for those instances and returns them as Devices.
//
// # Usage Example
//
//	devices, err := discovery.ScanForDevices(5 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range devices {
//	    fmt.Println(d, d.BaseURL())
//	}
//
// # Network Requirements
//
// Multicast must be allowed on the interface (UDP port 5353), and devices
// must be on the same network segment.
package discovery
