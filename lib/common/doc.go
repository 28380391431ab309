// Package common holds the ambient pieces shared by all dColl packages:
//
//   - logger: a custom implementation of dragonboat's logger.ILogger with a
//     compact "LEVEL | package | message" format and optional file rotation
//   - config: the process configuration (log level, log file, debug assertions)
//   - assert: debug assertions for precondition violations
//
// Precondition violations never corrupt a collection or the registry. In the
// default (release) mode a failed assertion is logged and the operation fails
// with its normal sentinel (NotFound, false). With debug assertions enabled the
// same violation panics with an *AssertionError (CLI flag --debug-asserts).
package common
