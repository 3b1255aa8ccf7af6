/*
Package config loads job files for devbox.

	            +-------------+
	            |    File     |
	            |   (Jobs)    |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Describe one or more runs in a file instead of on the command line
- Pick a parser from the file extension
- Validate every job before any of them runs

🔄 Flow:
1. Load reads the file and picks a parser
2. The parser decodes it, rejecting unknown fields
3. Validate applies defaults and resolves relative roots against the file's directory
4. OperationJobs opens each root and builds operation.Job values

⚡ Rules:
- Every job needs a root and exactly one of rename, replace or bom
- mode defaults to preview, collision to fail, parallel to 1
- Walk booleans left unset keep the defaults: recursive, files only
- Errors are wrapped around fault.ErrConfiguration

🔍 Example:

	# jobs.yaml
	parallel: 2
	jobs:
	  - name: notes
	    root: ./notes
	    mode: commit
	    walk:
	      extensions: [".md"]
	      exclude: [".git"]
	    replace:
	      search: colour
	      replace: color

	# jobs.hcl
	job "photos" {
	  root      = "${home}/photos"
	  collision = "suffix"
	  rename {
	    rule   = "number"
	    prefix = "img"
	    start  = 1
	    width  = 4
	  }
	}
*/
package config
