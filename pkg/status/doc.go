/*
Package status holds the outcome model of a batch run.

	            +-------------+
	            |   Report    |
	            | (one run)   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+------+          +-----+-----+
	| ItemResult |          |  Summary  |
	| (per item) |          | (derived) |
	+------------+          +-----------+

🎯 Purpose:
- Classifies every processed entry as success, skipped or error
- Derives run totals from the item results
- Renders results for the console and as a CSV export

🔄 Flow:
1. The orchestrator appends one ItemResult per entry in discovery order
2. Summary is computed from the results whenever it is asked for
3. Formatters turn results into console lines or CSV rows

⚡ Invariants:
- skipped means the computed value equals the original
- error means the host filesystem raised a fault for that item
- everything else is success, including planned changes in preview mode
- Summary is never stored, so it cannot drift from Results

🤝 Interfaces:
- FileFormatter: formats item results and progress messages
- Progress: reports run progress through zerolog
*/
package status
