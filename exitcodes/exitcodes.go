// Package exitcodes defines the standard exit codes used by the asuite tools.
package exitcodes

// Exit code constants shared by atest and aidegen.
// These constants define the exit codes that the tools use to indicate
// various states when they exit:
//
// * Success (0): Used when all tests pass / project generation succeeds
// * TestFailure (1): Used when one or more tests fail
// * RuntimeErr (2): Used for runtime errors such as run-level test errors,
//   malformed input or other failures
const (
	Success     = 0 // All tests pass
	TestFailure = 1 // Test failures
	RuntimeErr  = 2 // Runtime errors or run-level test errors
)
