// Package harness runs end-to-end scenarios through the host, entry adapter
// and scripted engine, and compares the resulting damage traces against
// golden files.
//
// # Scenario Format
//
//	name: baby-skill-halves-damage
//	description: skill 1 halves every notification
//	args: ["doomhost", "-skill", "1"]
//	script: ../scripts/e1m1.cue
//	session: test-session-1
//	response_files:
//	  opts.rsp: "-skill 1"
//	expect:
//	  exit_code: 0
//	  notifications: [5, 1]
//	  count: 2
//	  total: 6
//	  args: ["doomhost", "-skill", "1"]
//
// Unknown fields are rejected. script is resolved relative to the scenario
// file. An argument "@opts.rsp" refers to the response_files entry of that
// name.
//
// # Deterministic Testing
//
// The harness uses:
//   - Fixed session IDs (from scenario.session or testutil.DefaultSessionID)
//   - Deterministic tic clock (testutil.DeterministicClock)
//   - In-memory SQLite damage log (isolated per run)
//
// Golden files hold canonical JSON (see MarshalCanonical) of the trace,
// without a trailing newline.
package harness
