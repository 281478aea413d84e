// Package http provides the HTTP handlers and middleware for the booking API.
//
// The router exposes the following endpoints:
//   - POST /calendar/executive/{id}: replaces the executive's availability
//     calendar. Body: {"availability":[{"date","status"}]}. Only the executive
//     themselves may call it.
//   - GET /calendar/executive/{id}: returns the calendar plus the slots the
//     caller may see. Executives see their own slots, owners only the slots
//     they hold with that executive.
//   - POST /calendar/schedule/{slotId}: allocates a slot from an auction
//     outcome, exchanging the `scheduleRequest` payload defined in
//     calendar_handler.go. System role only.
//   - POST /calendar/schedule/{slotId}/cancel: cancels a slot strictly before
//     its start date. Body: {"nowDate"}. System role only.
//   - POST /calendar/notify/{userId}: pushes notifications and/or marks them
//     read, returning the inbox newest first. Pushing requires the system
//     role; marking read also works for the inbox owner.
//   - GET /health/live and GET /health/ready: probes, served without identity
//     headers.
//
// Every /calendar route expects the gateway identity headers X-User-Id and
// X-Role (EXECUTIVE, OWNER, or SYSTEM). Request and response DTOs live
// alongside their handlers.
package http
