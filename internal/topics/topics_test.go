package topics

import "testing"

func TestTopics(t *testing.T) {
	const (
		location = "trainingcenter"
		proto    = "daikiniot"
		mac      = "600194657C39"
		app      = "host-fcubridge"
	)

	if got, want := Broadcast(location, proto, mac), "trainingcenter/daikiniot/broadcast/device/600194657C39"; got != want {
		t.Errorf("Broadcast() = %s, want %s", got, want)
	}
	if got, want := Response(location, proto, ResponseAnyApp, mac), "trainingcenter/daikiniot/response/app/+/device/600194657C39"; got != want {
		t.Errorf("Response() = %s, want %s", got, want)
	}
	if got, want := Command(location, proto, mac, app), "trainingcenter/daikiniot/query/device/600194657C39/app/host-fcubridge"; got != want {
		t.Errorf("Command() = %s, want %s", got, want)
	}
}
