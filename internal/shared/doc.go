// Package shared holds utilities used across packages that belong to no
// specific domain layer. Currently that is the testutil subpackage with
// the slog capture helpers.
package shared
