/*
Package config loads .rewriterc files and turns them into the rules and file
selection of a run.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	  +--------+-------+-------+--------+
	  |        |               |        |
	+-+--+  +--+---+       +---+--+  +--+---+
	|HCL |  | YAML |       | JSON |  | TOML |
	+----+  +------+       +------+  +------+

🎯 Purpose:
- Finds and parses the project config in any supported format
- Validates set names, declared rules and renames before files are touched
- Builds the ordered rule list of a run

🔄 Flow:
1. Discover looks for .rewriterc.{hcl,yaml,yml,json,toml} or a bare .rewriterc
2. The registered Parser for the extension decodes it
3. Validate fills defaults and rejects bad values
4. BuildRules resolves built-in sets, then declared rules, then renames

🤝 Interfaces:
- Parser: format specific decoding, registered with Register

🔍 Example (.rewriterc.hcl):

	root        = "src"
	sets        = ["deep", "vue3", "vite", "patches"]
	ignore      = ["legacy/**"]
	concurrency = 8

	rule "api-v2" {
	  pattern = "/api/v1/(\\w+)"
	  replace = "/api/v2/$1"
	  scope   = "script"
	}

	rename {
	  from = "userName"
	  to   = "user_name"
	}

HCL expressions can read the environment through env, e.g.
root = env.PROJECT_ROOT.
*/
package config
