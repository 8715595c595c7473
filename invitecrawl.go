// Package invitecrawl provides a focused web crawler that harvests
// invite-style links from websites. It fetches pages, extracts target
// codes embedded in links, attributes and inline scripts, persists them
// per domain, and follows same-domain links up to configurable limits.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, rod/).
package invitecrawl
