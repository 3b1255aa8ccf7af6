/*
Package operation runs a transform over a directory tree.

	+-------------+
	|    walk     |
	|  (Entries)  |
	+------+------+
	       |
	+------+------+
	|  transform  |
	| (ItemResult)|
	+------+------+
	       |
	+------+------+
	|   status    |
	|  (Report)   |
	+-------------+

🎯 Purpose:
- Validate the walk options and the transform before anything is touched
- Walk the root once and keep that snapshot of entries for the whole run
- Apply the transform to each entry in discovery order, one at a time
- Summarize the results and hand a run log entry to the injected collector

🔄 Flow:
1. Run validates its Options; configuration errors stop it here
2. walk.Walk discovers entries, recording unlistable directories as faults
3. Each entry goes through Transform.Apply in preview or commit mode
4. Results are tracked, printed and summarized into a status.Report

⚡ Failure policy:
- A fault on one item becomes an error result; the run continues
- There is no rollback: items committed before a failure stay committed
- A cancelled context stops the run between items and returns the partial report

🤝 Runner:
Runner executes several jobs. By default they run sequentially. With a
parallel limit above one, jobs run on an errgroup, which requires their
roots not to overlap; each job still processes its own items sequentially.

🔍 Example:

	report, err := operation.Run(ctx, operation.Options{
		FS:        fsys,
		Root:      root,
		RootPath:  "./docs",
		Walk:      walk.DefaultOptions(),
		Transform: &transform.Replace{Search: "foo", Replace: "bar"},
		Mode:      status.ModePreview,
		Collector: collector,
	})
*/
package operation
