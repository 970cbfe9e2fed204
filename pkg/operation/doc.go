/*
Package operation runs rewrite rules over files and aggregates the outcome.

	+-------------+
	|  Operation  |
	|   (Batch)   |
	+------+------+
	       |
	+------+------+
	| RewriteFile |
	|  (per file) |
	+------+------+

🎯 Purpose:
- Applies an ordered rule list to every file of a FileSet
- Writes a file back only when its content changed
- Keeps going when a single file fails
- Aggregates per-file results and per-rule totals into a Report

🔄 Flow:
1. RunBatch receives a FileSet and Options
2. The Runner hands file indexes to a bounded pool of workers
3. RewriteFile reads through the status package, rewrites with the text
   package and writes back through the status package
4. Results land in a slice indexed like the FileSet, so the Report order
   never depends on scheduling

⚡ Failure model:
- Read, decode and write errors are stored in FileResult.Err
- Unclosed regions are logged at warn level with kind=region_mismatch
- Only context cancellation makes RunBatch return an error

🔍 Example:

	set, err := fileset.Collect(ctx, fileset.Options{Root: "."})
	if err != nil {
		return err
	}

	rs, err := rules.Resolve([]string{"all"})
	if err != nil {
		return err
	}

	report, err := operation.RunBatch(ctx, set, operation.Options{
		Rules:       rs,
		Concurrency: 8,
	})
*/
package operation
