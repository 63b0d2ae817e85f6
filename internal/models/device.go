package models

// Device is a registered recipient. DeviceToken is the unique identity used
// for delivery; Language is the preferred delivery language. Location is
// stored as plain lat/lon for the demo.
type Device struct {
	ID          int      `json:"id"`
	DeviceToken string   `json:"device_token"`
	Language    string   `json:"language"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// DeviceCreate is the registration payload. Registering an existing token
// updates its language (and location) instead of creating a second row.
type DeviceCreate struct {
	DeviceToken string   `json:"device_token" binding:"required"`
	Language    string   `json:"language" binding:"required"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}
