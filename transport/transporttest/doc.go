// Package transporttest provides Transport implementations for tests:
// deterministic fixtures, always-failing transports, and a recorder and
// replayer for capturing real exchanges to JSON and playing them back.
package transporttest
