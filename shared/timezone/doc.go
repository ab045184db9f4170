// Package timezone holds the application display timezone.
//
// Instants are stored and compared as absolute times; the application
// location only affects how they are rendered in responses:
//
//	now := timezone.Now()
//	formatted := timezone.Format(booking.StartTime, time.RFC3339)
//
// The location is read from APP_TIMEZONE (an IANA name such as "UTC" or
// "Europe/Lisbon") when the package is imported and falls back to UTC.
package timezone
