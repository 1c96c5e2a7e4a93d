// Package auth provides session authentication and channel authorization
// primitives for the channel-links backend.
//
// This package implements:
//   - Signed access and refresh tokens (HS512 JWT)
//   - The session protocol: login, per-request authentication, sliding refresh
//   - Role resolution inside a channel (SuperUser > Owner > Admin > Member)
//   - Guards that services call before touching protected data
//
// The authenticated Identity is always passed explicitly; nothing here reads
// or writes process-wide request state.
package auth
