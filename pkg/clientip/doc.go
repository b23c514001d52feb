// Package clientip extracts client addresses from HTTP requests.
//
// GetIP checks proxy headers in priority order and falls back to RemoteAddr:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (leftmost entry)
//  4. X-Real-IP
//  5. RemoteAddr
//
// Header values are parsed and normalized; invalid entries and 0.0.0.0 / :: are
// skipped. RemoteHost ignores headers entirely and is the right choice when the
// service is reachable directly, because clients control proxy headers.
package clientip
