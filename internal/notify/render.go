package notify

import (
	"fmt"
	"math"
	"strings"

	"github.com/Sidddev15/geo-alert/internal/event"
)

func mapsLinks(lat, lng float64) (apple, google string) {
	apple = fmt.Sprintf("https://maps.apple.com/?ll=%v,%v", lat, lng)
	google = fmt.Sprintf("https://www.google.com/maps?q=%v,%v", lat, lng)
	return apple, google
}

func batteryString(b *float64) string {
	if b == nil {
		return "N/A"
	}
	if *b <= 1 {
		return fmt.Sprintf("%d%%", int(math.Round(*b*100)))
	}
	return fmt.Sprintf("%d%%", int(math.Round(*b)))
}

func orElse(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func normalSubject(ev event.Incoming) string {
	return fmt.Sprintf("Location Update – %s IST", orElse(ev.DeviceTs, "Now"))
}

func normalBody(ev event.Incoming) string {
	apple, google := mapsLinks(ev.Lat, ev.Lng)
	return strings.TrimSpace(fmt.Sprintf(`
Event Type: %s
Time (IST): %s

Latitude: %v
Longitude: %v

Apple Maps:
%s

Google Maps:
%s

Battery: %s
Notes: %s

—
Sent via Geo Alert
`, ev.EventType, orElse(ev.DeviceTs, "Not provided"), ev.Lat, ev.Lng,
		apple, google, batteryString(ev.Battery), orElse(ev.Notes, "-")))
}

func emergencySubject(ev event.Incoming) string {
	return fmt.Sprintf("🚨 EMERGENCY – LOCATION SHARED – %s", orElse(ev.DeviceTs, "NOW"))
}

func emergencyBody(ev event.Incoming) string {
	apple, google := mapsLinks(ev.Lat, ev.Lng)
	return strings.TrimSpace(fmt.Sprintf(`
🚨🚨🚨 EMERGENCY ALERT 🚨🚨🚨

I NEED HELP.

My current location is below.

Time (IST): %s

Latitude: %v
Longitude: %v

OPEN LOCATION:
Apple Maps:
%s

Google Maps:
%s

Battery: %s
Notes: %s

PLEASE CHECK ON ME IMMEDIATELY.

—
Sent via Geo Alert
`, orElse(ev.DeviceTs, "Not provided"), ev.Lat, ev.Lng,
		apple, google, batteryString(ev.Battery), orElse(ev.Notes, "No additional notes")))
}
