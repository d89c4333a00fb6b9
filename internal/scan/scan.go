// Package scan decodes and encodes the QR payloads used to identify vehicles
// and locations. A payload is only accepted when its shape matches the kind
// the caller expects; the decoder never guesses from whichever fields happen
// to be present.
package scan

import (
	"encoding/json"
	"fmt"
	"net/url"

	"yard-tracking-backend/internal/remote"
)

// Kind is the payload variant a caller expects.
type Kind string

const (
	KindVehicle  Kind = "vehicle"
	KindLocation Kind = "location"
)

// DecodeVehicle parses a payload expected to identify a vehicle. The payload
// must carry at least id and plate; extra keys are tolerated. A well-formed
// location payload is rejected all the same.
func DecodeVehicle(payload []byte) (*remote.Vehicle, error) {
	var v remote.Vehicle
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, remote.Validation("scan payload is not valid")
	}
	if v.ID <= 0 || v.Plate == "" {
		return nil, remote.Validation("scan payload does not identify a vehicle")
	}
	return &v, nil
}

// DecodeLocation parses a payload expected to identify a location. The
// payload must carry at least id and warehouse.
func DecodeLocation(payload []byte) (*remote.Location, error) {
	var l remote.Location
	if err := json.Unmarshal(payload, &l); err != nil {
		return nil, remote.Validation("scan payload is not valid")
	}
	if l.ID <= 0 || l.Warehouse == "" {
		return nil, remote.Validation("scan payload does not identify a location")
	}
	return &l, nil
}

// EncodeVehicle renders the payload printed on a vehicle's QR label.
func EncodeVehicle(v remote.Vehicle) ([]byte, error) {
	return json.Marshal(v)
}

// EncodeLocation renders the payload printed on a location's QR label.
func EncodeLocation(l remote.Location) ([]byte, error) {
	return json.Marshal(l)
}

// ImageURL builds the render URL for a QR label. The actual image rendering
// is an external service.
func ImageURL(payload []byte) string {
	return fmt.Sprintf("https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=%s",
		url.QueryEscape(string(payload)))
}
