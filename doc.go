// Package authgate provides email/password credential issuance: a short
// lived access JWT paired with a long lived, rotating refresh JWT.
//
// Email canonicalization:
//   - Canonicalize normalizes addresses before storage and lookup, folding
//     provider aliases (dots and plus suffixes on gmail.com) into a single
//     canonical mailbox so one inbox maps to at most one account.
//
// Credential lifecycle:
//   - TokenService mints, validates, rotates, and revokes credential pairs.
//     Refresh credentials carry a jti and are checked against a
//     CredentialStore revocation set; access credentials validate
//     statelessly. Rotation leaves the prior refresh credential usable
//     until its natural expiry so concurrent sessions survive.
//   - A Sweeper drops revocation entries once the credential they block
//     could no longer validate anyway.
//
// HTTP surface:
//   - Auther orchestrates login, registration, refresh, and logout;
//     AuthController exposes them as JSON endpoints with the refresh
//     credential held in a path scoped HttpOnly cookie, and
//     RouteAuthenticator.ProtectedRoute guards routes with the access
//     credential from the Authorization header.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by Auther to
//     describe login, registration, rotation, and revocation events. Sinks
//     run best-effort (errors are logged) so you can forward to a database
//     or queue without blocking authentication.
package authgate
