// Package wire defines the JSON text-frame shapes exchanged on the mercury
// event channel.
//
// Every inbound frame decodes into an Envelope. Two reserved shapes are
// control messages rather than events:
//   - {"type": "shutdown"}: the server is about to close this connection and
//     expects the client to open a replacement first
//   - {"type": "pong", "id": "..."}: reply to a client ping
//
// All other frames carry an event:
//
//	{
//	  "id": "...",
//	  "sequenceNumber": 42,
//	  "wsWriteTimestamp": 1700000000000,
//	  "headers": {"data.activity.verb": "acknowledge"},
//	  "data": {"eventType": "conversation.activity", ...}
//	}
//
// # Header Overrides
//
// Header keys are dotted key paths. The server uses them to patch fields of
// the payload without re-sending it; the router applies them before dispatch.
package wire
