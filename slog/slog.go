// Package slog provides log/slog decorators for invitecrawl services.
// Domain packages stay silent; wrap them here to log each operation with
// its inputs, result sizes, duration and error.
package slog
