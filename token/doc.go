// Package token owns every translation between in-process session objects
// and signed JWTs. Two one-way translation points form a single seam:
// [SessionManager.Issue] writes the tenant under the API-facing claim name
// org_id, and [SessionManager.Hydrate] reconstructs the session under the
// in-process name OrganizationID. No other code may rename these fields.
//
// [ServiceManager] mints the short-lived, independently-signed tokens used
// for server-to-server calls into the internal API.
package token
