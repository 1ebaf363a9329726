// Package relay is a TCP proxy between game clients and a server that
// decodes every frame, lets hooks inspect or rewrite it, and forwards the
// result.
//
// Each accepted client gets its own upstream connection and two pumps, one
// per direction. A frame flows through Process:
//
//	decode -> track -> hook dispatch -> forward
//
// A frame nobody changed is forwarded byte for byte. A changed frame is
// re-encoded, and a canceled frame is dropped. Frames that fail to decode
// are handled by the configured Policy.
package relay
