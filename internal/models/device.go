package models

import "fmt"

// Device represents a physical instrument registered in BactoCloud.
// Devices are fetched fresh per run and treated as read-only.
type Device struct {
	ID           string `json:"_id"`
	SerialNumber string `json:"serial_number"`
	Name         string `json:"name"`
}

// Label returns the display form used in device listings.
func (d Device) Label() string {
	serial := d.SerialNumber
	if serial == "" {
		serial = "Unknown"
	}
	name := d.Name
	if name == "" {
		name = "Unnamed"
	}
	return fmt.Sprintf("%s - %s", serial, name)
}
