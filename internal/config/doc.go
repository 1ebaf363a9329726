// Package config provides configuration parsing for the tnet relay.
//
// The configuration is stored in a TOML file, tnet.toml by default. Keys
// missing from the file keep their defaults, so an empty file (or no file
// at all) is a valid configuration.
//
// # Configuration File Structure
//
//	[relay]
//	listen = ":7777"
//	upstream = "127.0.0.1:7778"
//	on_decode_error = "forward"   # forward | drop | close
//	block_ids = [68]
//
//	[admin]
//	listen = ":9090"
//
//	[capture]
//	enabled = true
//	dir = "captures"
//
//	[capture.s3]
//	bucket = "my-captures"
//	prefix = "tnet/"
//	region = "us-east-1"
//
//	[log]
//	level = "debug"
//	format = "json"
//
// # Environment
//
// TNET_LOG_LEVEL and TNET_UPSTREAM override log.level and relay.upstream
// after the file is read.
package config
