// Package calendar renders the concert list as an iCalendar (RFC 5545) feed
// that calendar apps can subscribe to.
package calendar
