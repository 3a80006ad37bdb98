// Package harness runs Yolol test scripts and classifies their outcome.
//
// A test script passes by setting the external variable ":output" to the
// string "ok". Any other string fails the test with that string as the
// message. A test that keeps ":output" numeric until its tick budget runs
// out fails as exhausted.
//
// # Execution
//
// Drive owns one test's execution. It repeatedly resumes the compiled
// program with the remaining budget and a change-watch key for the output
// slot, so the program returns as soon as ":output" changes rather than
// after every tick:
//
//	Ready -> Running -> {Passed, Failed, BudgetExhausted}
//
// The output slot is inspected once per resumption. The sum of ticks
// charged across resumptions never exceeds the budget (TickBudget).
//
// # Error Taxonomy
//
// Every failure is converted into a Result at the boundary of one test and
// tagged with a Kind: FILE_NOT_FOUND, PARSE_ERROR, COMPILE_ERROR,
// MISSING_OUTPUT_BINDING, RUNTIME_FAULT, TICKS_EXHAUSTED or OUTPUT_FAILURE.
// Nothing a test does can abort the run.
//
// # Orchestration
//
// Runner processes tests strictly one at a time in discovery order. It
// renders the full list once with every test pending and again after each
// test completes, so every render is a superset of the previous one.
//
//	tests, err := harness.Discover(dir)
//	runner := harness.NewRunner(opts, renderer, harness.WithLogger(logger))
//	entries, err := runner.Run(ctx, tests)
package harness
