// Package harness runs YAML scenarios against a bingo session.
//
// A scenario drives the same pipeline the CLI and TUI use, with a seeded
// random source, a fixed board ID and a fake clock, then checks the
// resulting trace and final state.
//
// # Scenario Format
//
//	name: upload_then_recreate
//	description: "What this scenario validates"
//	seed: 7
//	free_space: true
//	flow:
//	  - action: upload
//	    args: { file: ../catalogs/team.json }
//	    expect:
//	      case: Success
//	      result: { version: 1 }
//	  - action: recreate
//	  - action: advance
//	    args: { by: 60s }
//	assertions:
//	  - type: trace_count
//	    action: upload
//	    case: RateLimited
//	    count: 0
//	  - type: final_state
//	    expect: { version: 2, preview: false }
//
// File arguments are relative to the scenario file.
//
// # Actions
//
//   - upload: run the full upload pipeline on args.file
//   - recreate: regenerate from the held catalog
//   - set_free_space: args.on
//   - toggle_free_space
//   - set_header: args.title, args.instructions, args.subtitle
//   - advance: move the fake clock by args.by (a Go duration)
//   - export_filename: name the export for args.date (YYYY-MM-DD)
//
// Every action completes with case Success or with the catalog error kind
// it failed with.
//
// # Assertion Types
//
//   - trace_contains: an invocation of action with matching args exists
//   - trace_order: actions were first invoked in the given order
//   - trace_count: action was invoked exactly count times, or completed
//     with case exactly count times when case is set
//   - final_state: the session state matches expect
//
// # Determinism
//
// Board cells depend on the seed, so results and snapshots record each
// board's shape (ID, version, free space and per-category counts) rather
// than its cells. Shapes are fully determined by the catalog.
//
// # Golden Files
//
// RunWithGolden compares the trace and final state against
// testdata/golden/{name}.golden. To regenerate:
//
//	go test ./internal/harness -update
package harness
