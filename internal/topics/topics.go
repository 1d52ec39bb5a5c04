// Package topics builds the message-bus topic names used by the FCU
// protocol. The core treats location, protocol prefix and application name
// as opaque strings; only the templates below are protocol convention.
//
//	broadcast: <location>/<proto>/broadcast/device/<mac>
//	response:  <location>/<proto>/response/app/<app>/device/<mac>
//	command:   <location>/<proto>/query/device/<mac>/app/<app>
package topics

import "fmt"

// ResponseAnyApp is the wildcard used to receive responses addressed to any
// application.
const ResponseAnyApp = "+"

// Broadcast returns the topic on which a device publishes telemetry frames.
func Broadcast(location, proto, mac string) string {
	return fmt.Sprintf("%s/%s/broadcast/device/%s", location, proto, mac)
}

// Response returns the topic on which a device answers read requests from
// app. Pass ResponseAnyApp to match responses to every application.
func Response(location, proto, app, mac string) string {
	return fmt.Sprintf("%s/%s/response/app/%s/device/%s", location, proto, app, mac)
}

// Command returns the topic a device listens on for command frames sent by
// app.
func Command(location, proto, mac, app string) string {
	return fmt.Sprintf("%s/%s/query/device/%s/app/%s", location, proto, mac, app)
}
