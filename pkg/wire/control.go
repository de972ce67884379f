package wire

// NewPing builds a client ping frame.
func NewPing(id string) *Envelope {
	return &Envelope{ID: id, Type: TypePing}
}

// NewAuthorization builds the frame sent right after the handshake to bind
// the connection to a credential.
func NewAuthorization(id, token, trackingID string) *Envelope {
	return &Envelope{
		ID:         id,
		Type:       TypeAuthorization,
		TrackingID: trackingID,
		Data:       map[string]any{"token": token},
	}
}
